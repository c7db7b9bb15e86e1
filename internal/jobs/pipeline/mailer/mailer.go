package mailer

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"os"
	"strings"
	texttemplate "text/template"

	"github.com/yungbote/lumina-backend/internal/platform/sendgrid"
)

// Store is the sender identity every customer email is branded with.
type Store struct {
	Name string
	URL  string
}

func StoreFromEnv() Store {
	s := Store{
		Name: strings.TrimSpace(os.Getenv("STORE_NAME")),
		URL:  strings.TrimSpace(os.Getenv("STORE_URL")),
	}
	if s.Name == "" {
		s.Name = "Lumina"
	}
	if s.URL == "" {
		s.URL = "http://localhost:3000"
	}
	s.URL = strings.TrimRight(s.URL, "/")
	return s
}

// Template pairs a subject line with text and HTML bodies. All three are
// executed against the same data.
type Template struct {
	Name    string
	Subject string
	Text    string
	HTML    string
}

type Message struct {
	To       sendgrid.EmailAddress
	Subject  string
	Text     string
	HTML     string
	Category string
	Args     map[string]string
}

// Render executes t with data. Store is exposed to the templates as .Store.
func Render(t Template, store Store, data map[string]any) (Message, error) {
	view := map[string]any{"Store": store}
	for k, v := range data {
		view[k] = v
	}
	subject, err := execText(t.Name+".subject", t.Subject, view)
	if err != nil {
		return Message{}, err
	}
	text, err := execText(t.Name+".text", t.Text, view)
	if err != nil {
		return Message{}, err
	}
	var html bytes.Buffer
	ht, err := htmltemplate.New(t.Name + ".html").Parse(t.HTML)
	if err != nil {
		return Message{}, fmt.Errorf("parse %s html: %w", t.Name, err)
	}
	if err := ht.Execute(&html, view); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", t.Name, err)
	}
	return Message{
		Subject:  strings.TrimSpace(subject),
		Text:     text,
		HTML:     html.String(),
		Category: t.Name,
	}, nil
}

func execText(name, src string, data any) (string, error) {
	tt, err := texttemplate.New(name).Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Send delivers msg from the client's default sender. The store name is used
// as the display name.
func Send(ctx context.Context, client sendgrid.Client, store Store, msg Message) (*sendgrid.SendEmailResult, error) {
	if client == nil {
		return nil, sendgrid.ErrNotConfigured
	}
	if strings.TrimSpace(msg.To.Email) == "" {
		return nil, fmt.Errorf("missing recipient")
	}
	req := sendgrid.SendEmailRequest{
		From:       sendgrid.EmailAddress{Name: store.Name},
		To:         []sendgrid.EmailAddress{msg.To},
		Subject:    msg.Subject,
		Text:       msg.Text,
		HTML:       msg.HTML,
		CustomArgs: msg.Args,
	}
	if msg.Category != "" {
		req.Categories = []string{msg.Category}
	}
	return client.Send(ctx, req)
}
