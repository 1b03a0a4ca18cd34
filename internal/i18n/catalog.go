package i18n

import "github.com/spec-kit/support-desk/internal/domain"

// Catalog is the localized copy for one language.
type Catalog struct {
	Topics map[domain.TicketTopic]string

	ConfirmationSubject string
	ConfirmationIntro   string
	ResponseTime        string
	ReplySubject        string
	ReplyIntro          string
	ResolvedSubject     string
	ResolvedIntro       string
	NoReply             string
	TicketLabel         string
	TopicLabel          string
	AttachmentsLabel    string
	Signature           string

	FAQ []domain.FAQEntry
}

// Lookup returns the catalog for lang, or the English one.
func Lookup(lang string) Catalog {
	if c, ok := catalogs[lang]; ok {
		return c
	}
	return catalogs[DefaultLanguage]
}

// TopicName returns the localized topic name.
func (c Catalog) TopicName(topic domain.TicketTopic) string {
	if label, ok := c.Topics[topic]; ok {
		return label
	}
	return c.Topics[domain.TopicOther]
}

// Languages lists codes that have a catalog.
func Languages() []string {
	out := make([]string, 0, len(catalogs))
	for code := range catalogs {
		out = append(out, code)
	}
	return out
}

var catalogs = map[string]Catalog{
	"en": {
		Topics: map[domain.TicketTopic]string{
			domain.TopicGeneral:      "General question",
			domain.TopicTransactions: "Transactions",
			domain.TopicAccount:      "Account",
			domain.TopicSecurity:     "Security",
			domain.TopicOther:        "Other",
		},
		ConfirmationSubject: "We received your request",
		ConfirmationIntro:   "Thanks for reaching out. Your support ticket has been created.",
		ResponseTime:        "Our team usually replies within 24 to 48 hours.",
		ReplySubject:        "New reply on your support ticket",
		ReplyIntro:          "Our support team replied to your ticket:",
		ResolvedSubject:     "Your support ticket was resolved",
		ResolvedIntro:       "Your ticket has been marked as resolved.",
		NoReply:             "No additional message was provided.",
		TicketLabel:         "Ticket ID",
		TopicLabel:          "Topic",
		AttachmentsLabel:    "Attachments",
		Signature:           "The Support Team",
		FAQ: []domain.FAQEntry{
			{Question: "How long does a transaction take?", Answer: "Most transactions confirm within a few minutes, depending on network congestion."},
			{Question: "Can you recover my wallet?", Answer: "No. The wallet is non-custodial; only you hold the keys. Never share your recovery phrase with anyone, including support."},
			{Question: "Why did my swap fail?", Answer: "Swaps fail when the price moves beyond your slippage tolerance or the network fee is insufficient. No funds are lost besides the network fee."},
			{Question: "How do I check my ticket status?", Answer: "Use your ticket ID together with the email you submitted it with on the help page."},
		},
	},
	"es": {
		Topics: map[domain.TicketTopic]string{
			domain.TopicGeneral:      "Consulta general",
			domain.TopicTransactions: "Transacciones",
			domain.TopicAccount:      "Cuenta",
			domain.TopicSecurity:     "Seguridad",
			domain.TopicOther:        "Otro",
		},
		ConfirmationSubject: "Hemos recibido tu solicitud",
		ConfirmationIntro:   "Gracias por escribirnos. Tu ticket de soporte ha sido creado.",
		ResponseTime:        "Nuestro equipo suele responder en un plazo de 24 a 48 horas.",
		ReplySubject:        "Nueva respuesta en tu ticket de soporte",
		ReplyIntro:          "Nuestro equipo de soporte respondió a tu ticket:",
		ResolvedSubject:     "Tu ticket de soporte fue resuelto",
		ResolvedIntro:       "Tu ticket ha sido marcado como resuelto.",
		NoReply:             "No se proporcionó ningún mensaje adicional.",
		TicketLabel:         "ID del ticket",
		TopicLabel:          "Tema",
		AttachmentsLabel:    "Adjuntos",
		Signature:           "El equipo de soporte",
		FAQ: []domain.FAQEntry{
			{Question: "¿Cuánto tarda una transacción?", Answer: "La mayoría de las transacciones se confirman en pocos minutos, según la congestión de la red."},
			{Question: "¿Pueden recuperar mi billetera?", Answer: "No. La billetera no es custodial; solo tú tienes las claves. Nunca compartas tu frase de recuperación, ni siquiera con soporte."},
			{Question: "¿Por qué falló mi intercambio?", Answer: "Los intercambios fallan cuando el precio supera tu tolerancia de deslizamiento o la comisión de red es insuficiente."},
			{Question: "¿Cómo consulto el estado de mi ticket?", Answer: "Usa el ID del ticket junto con el correo con el que lo enviaste en la página de ayuda."},
		},
	},
	"fr": {
		Topics: map[domain.TicketTopic]string{
			domain.TopicGeneral:      "Question générale",
			domain.TopicTransactions: "Transactions",
			domain.TopicAccount:      "Compte",
			domain.TopicSecurity:     "Sécurité",
			domain.TopicOther:        "Autre",
		},
		ConfirmationSubject: "Nous avons bien reçu votre demande",
		ConfirmationIntro:   "Merci de nous avoir contactés. Votre ticket a été créé.",
		ResponseTime:        "Notre équipe répond généralement sous 24 à 48 heures.",
		ReplySubject:        "Nouvelle réponse à votre ticket",
		ReplyIntro:          "Notre équipe a répondu à votre ticket :",
		ResolvedSubject:     "Votre ticket a été résolu",
		ResolvedIntro:       "Votre ticket a été marqué comme résolu.",
		NoReply:             "Aucun message supplémentaire n'a été fourni.",
		TicketLabel:         "Numéro de ticket",
		TopicLabel:          "Sujet",
		AttachmentsLabel:    "Pièces jointes",
		Signature:           "L'équipe support",
		FAQ: []domain.FAQEntry{
			{Question: "Combien de temps prend une transaction ?", Answer: "La plupart des transactions sont confirmées en quelques minutes selon la congestion du réseau."},
			{Question: "Pouvez-vous récupérer mon portefeuille ?", Answer: "Non. Le portefeuille est non custodial ; vous seul détenez les clés. Ne partagez jamais votre phrase de récupération."},
			{Question: "Pourquoi mon échange a-t-il échoué ?", Answer: "Un échange échoue lorsque le prix dépasse votre tolérance de glissement ou que les frais de réseau sont insuffisants."},
			{Question: "Comment suivre mon ticket ?", Answer: "Saisissez votre numéro de ticket et l'e-mail utilisé lors de l'envoi sur la page d'aide."},
		},
	},
	"pt": {
		Topics: map[domain.TicketTopic]string{
			domain.TopicGeneral:      "Dúvida geral",
			domain.TopicTransactions: "Transações",
			domain.TopicAccount:      "Conta",
			domain.TopicSecurity:     "Segurança",
			domain.TopicOther:        "Outro",
		},
		ConfirmationSubject: "Recebemos sua solicitação",
		ConfirmationIntro:   "Obrigado pelo contato. Seu ticket de suporte foi criado.",
		ResponseTime:        "Nossa equipe costuma responder em 24 a 48 horas.",
		ReplySubject:        "Nova resposta no seu ticket de suporte",
		ReplyIntro:          "Nossa equipe de suporte respondeu ao seu ticket:",
		ResolvedSubject:     "Seu ticket de suporte foi resolvido",
		ResolvedIntro:       "Seu ticket foi marcado como resolvido.",
		NoReply:             "Nenhuma mensagem adicional foi enviada.",
		TicketLabel:         "ID do ticket",
		TopicLabel:          "Assunto",
		AttachmentsLabel:    "Anexos",
		Signature:           "Equipe de suporte",
		FAQ: []domain.FAQEntry{
			{Question: "Quanto tempo leva uma transação?", Answer: "A maioria das transações é confirmada em poucos minutos, dependendo do congestionamento da rede."},
			{Question: "Vocês podem recuperar minha carteira?", Answer: "Não. A carteira não é custodial; só você possui as chaves. Nunca compartilhe sua frase de recuperação."},
			{Question: "Por que minha troca falhou?", Answer: "Trocas falham quando o preço ultrapassa sua tolerância de slippage ou a taxa de rede é insuficiente."},
			{Question: "Como verifico o status do meu ticket?", Answer: "Use o ID do ticket junto com o e-mail informado no envio na página de ajuda."},
		},
	},
	"de": {
		Topics: map[domain.TicketTopic]string{
			domain.TopicGeneral:      "Allgemeine Frage",
			domain.TopicTransactions: "Transaktionen",
			domain.TopicAccount:      "Konto",
			domain.TopicSecurity:     "Sicherheit",
			domain.TopicOther:        "Sonstiges",
		},
		ConfirmationSubject: "Wir haben deine Anfrage erhalten",
		ConfirmationIntro:   "Danke für deine Nachricht. Dein Support-Ticket wurde erstellt.",
		ResponseTime:        "Unser Team antwortet in der Regel innerhalb von 24 bis 48 Stunden.",
		ReplySubject:        "Neue Antwort zu deinem Support-Ticket",
		ReplyIntro:          "Unser Support-Team hat auf dein Ticket geantwortet:",
		ResolvedSubject:     "Dein Support-Ticket wurde gelöst",
		ResolvedIntro:       "Dein Ticket wurde als gelöst markiert.",
		NoReply:             "Es wurde keine zusätzliche Nachricht angegeben.",
		TicketLabel:         "Ticket-ID",
		TopicLabel:          "Thema",
		AttachmentsLabel:    "Anhänge",
		Signature:           "Dein Support-Team",
		FAQ: []domain.FAQEntry{
			{Question: "Wie lange dauert eine Transaktion?", Answer: "Die meisten Transaktionen werden je nach Netzwerkauslastung innerhalb weniger Minuten bestätigt."},
			{Question: "Könnt ihr meine Wallet wiederherstellen?", Answer: "Nein. Die Wallet ist nicht verwahrend; nur du besitzt die Schlüssel. Teile deine Wiederherstellungsphrase niemals."},
			{Question: "Warum ist mein Swap fehlgeschlagen?", Answer: "Swaps schlagen fehl, wenn der Preis deine Slippage-Toleranz überschreitet oder die Netzwerkgebühr nicht ausreicht."},
			{Question: "Wie prüfe ich den Status meines Tickets?", Answer: "Gib auf der Hilfeseite deine Ticket-ID und die beim Absenden verwendete E-Mail ein."},
		},
	},
}
