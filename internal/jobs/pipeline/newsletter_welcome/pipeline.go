package newsletter_welcome

import (
	"fmt"

	jobrt "github.com/yungbote/lumina-backend/internal/jobs/runtime"
	"github.com/yungbote/lumina-backend/internal/jobs/pipeline/mailer"
	"github.com/yungbote/lumina-backend/internal/platform/sendgrid"
)

func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	if p.email == nil {
		jc.Succeed("skipped", map[string]any{"skipped": true})
		return nil
	}
	email := jc.PayloadString("email")
	if email == "" {
		jc.Fail("validate", fmt.Errorf("missing email"))
		return nil
	}

	msg, err := mailer.Render(mailer.NewsletterWelcome, p.store, map[string]any{"Email": email})
	if err != nil {
		jc.Fail("render", err)
		return nil
	}
	msg.To = sendgrid.EmailAddress{Email: email}
	msg.Args = map[string]string{"job_id": jc.Job.ID.String()}

	jc.Progress("send", 50, "Sending welcome email")
	res, err := mailer.Send(jc.Ctx, p.email, p.store, msg)
	if err != nil {
		jc.Fail("send", err)
		return nil
	}
	p.log.Info("Newsletter welcome sent", "message_id", res.MessageID)
	jc.Succeed("done", map[string]any{"message_id": res.MessageID})
	return nil
}
