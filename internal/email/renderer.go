package email

import (
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/i18n"
)

// Content is what the templates need to know about a ticket.
type Content struct {
	To          string
	TicketID    string
	Language    string
	Topic       domain.TicketTopic
	Reply       string
	Attachments []string
}

const layout = `<!DOCTYPE html>
<html lang="{{ lang }}">
<body style="font-family:Arial,Helvetica,sans-serif;color:#1f2937;">
<p>{{ intro }}</p>
{% block body %}{% endblock %}
<p>{{ copy.TicketLabel }}: <strong>{{ ticket_id }}</strong></p>
<p>{{ signature }}</p>
</body>
</html>`

const confirmationTemplate = `{% extends "layout" %}{% block body %}
<p>{{ copy.TopicLabel }}: {{ topic }}</p>
<p>{{ copy.ResponseTime }}</p>
{% endblock %}`

const replyTemplate = `{% extends "layout" %}{% block body %}
<div>{{ reply|safe }}</div>
{% if attachments %}<p>{{ copy.AttachmentsLabel }}:</p>
<ul>{% for url in attachments %}<li><a href="{{ url }}">{{ url }}</a></li>{% endfor %}</ul>{% endif %}
{% endblock %}`

// Renderer turns ticket events into localized HTML emails.
type Renderer struct {
	resolver     *i18n.Resolver
	confirmation *pongo2.Template
	reply        *pongo2.Template
	markdown     goldmark.Markdown
	policy       *bluemonday.Policy
}

// NewRenderer compiles the templates once.
func NewRenderer(resolver *i18n.Resolver) (*Renderer, error) {
	set := pongo2.NewSet("email", &memoryLoader{templates: map[string]string{
		"layout":       layout,
		"confirmation": confirmationTemplate,
		"reply":        replyTemplate,
	}})
	confirmation, err := set.FromCache("confirmation")
	if err != nil {
		return nil, fmt.Errorf("compile confirmation template: %w", err)
	}
	reply, err := set.FromCache("reply")
	if err != nil {
		return nil, fmt.Errorf("compile reply template: %w", err)
	}
	return &Renderer{
		resolver:     resolver,
		confirmation: confirmation,
		reply:        reply,
		markdown:     goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps())),
		policy:       bluemonday.UGCPolicy(),
	}, nil
}

// Confirmation is sent once a ticket is created.
func (r *Renderer) Confirmation(c Content) (Message, error) {
	cat := i18n.Lookup(r.resolver.Normalize(c.Language))
	body, err := r.confirmation.Execute(r.context(c, cat, cat.ConfirmationIntro))
	if err != nil {
		return Message{}, fmt.Errorf("render confirmation: %w", err)
	}
	return Message{To: c.To, Subject: subject(cat.ConfirmationSubject, c.TicketID), HTML: body}, nil
}

// Reply is sent after an admin reply.
func (r *Renderer) Reply(c Content) (Message, error) {
	cat := i18n.Lookup(r.resolver.Normalize(c.Language))
	ctx := r.context(c, cat, cat.ReplyIntro)
	ctx["reply"] = r.replyHTML(c.Reply, cat)
	body, err := r.reply.Execute(ctx)
	if err != nil {
		return Message{}, fmt.Errorf("render reply: %w", err)
	}
	return Message{To: c.To, Subject: subject(cat.ReplySubject, c.TicketID), HTML: body}, nil
}

// Resolved is sent when a ticket is resolved, with the placeholder if there is no reply.
func (r *Renderer) Resolved(c Content) (Message, error) {
	cat := i18n.Lookup(r.resolver.Normalize(c.Language))
	ctx := r.context(c, cat, cat.ResolvedIntro)
	ctx["reply"] = r.replyHTML(c.Reply, cat)
	body, err := r.reply.Execute(ctx)
	if err != nil {
		return Message{}, fmt.Errorf("render resolution: %w", err)
	}
	return Message{To: c.To, Subject: subject(cat.ResolvedSubject, c.TicketID), HTML: body}, nil
}

func (r *Renderer) context(c Content, cat i18n.Catalog, intro string) pongo2.Context {
	attachments := make([]string, 0, len(c.Attachments))
	for _, url := range c.Attachments {
		if url = strings.TrimSpace(url); url != "" {
			attachments = append(attachments, url)
		}
	}
	return pongo2.Context{
		"lang":        r.resolver.Normalize(c.Language),
		"copy":        cat,
		"intro":       intro,
		"ticket_id":   c.TicketID,
		"topic":       cat.TopicName(c.Topic),
		"signature":   cat.Signature,
		"attachments": attachments,
	}
}

// replyHTML renders admin markdown and strips anything unsafe.
func (r *Renderer) replyHTML(reply string, cat i18n.Catalog) string {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return r.policy.Sanitize("<p>" + cat.NoReply + "</p>")
	}
	var buf strings.Builder
	if err := r.markdown.Convert([]byte(reply), &buf); err != nil {
		return r.policy.Sanitize("<p>" + reply + "</p>")
	}
	return r.policy.Sanitize(buf.String())
}

func subject(prefix, ticketID string) string {
	return fmt.Sprintf("%s [%s]", prefix, ticketID)
}
