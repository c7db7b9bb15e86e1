package order_email

import (
	"fmt"
	"strings"

	types "github.com/yungbote/lumina-backend/internal/domain"
	jobrt "github.com/yungbote/lumina-backend/internal/jobs/runtime"
	"github.com/yungbote/lumina-backend/internal/jobs/pipeline/mailer"
	"github.com/yungbote/lumina-backend/internal/platform/sendgrid"
)

type line struct {
	Name     string
	Quantity int
	Total    string
}

var statusHeadlines = map[string]string{
	types.OrderStatusShipped:   "has shipped",
	types.OrderStatusDelivered: "was delivered",
	types.OrderStatusCancelled: "was cancelled",
}

func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	if p.email == nil {
		jc.Succeed("skipped", map[string]any{"skipped": true})
		return nil
	}
	number := jc.PayloadString("order_number")
	if number == "" {
		jc.Fail("validate", fmt.Errorf("missing order_number"))
		return nil
	}

	jc.Progress("load", 10, "Loading order")
	order, err := p.orders.GetByNumber(jc.DBC(), number)
	if err != nil {
		jc.Fail("load", err)
		return nil
	}
	if order == nil {
		jc.Succeed("skipped", map[string]any{"skipped": true, "reason": "order_not_found"})
		return nil
	}

	tmpl := mailer.OrderConfirmation
	data := map[string]any{
		"FirstName":   order.FirstName,
		"OrderNumber": order.OrderNumber,
	}
	if p.jobType == types.JobTypeOrderStatusEmail {
		status := jc.PayloadString("status")
		if status == "" {
			status = order.Status
		}
		headline, ok := statusHeadlines[status]
		if !ok {
			jc.Succeed("skipped", map[string]any{"skipped": true, "reason": "status_not_notified", "status": status})
			return nil
		}
		tmpl = mailer.OrderStatus
		data["Headline"] = headline
	} else {
		lines := make([]line, 0, len(order.Items))
		for i := range order.Items {
			it := &order.Items[i]
			lines = append(lines, line{Name: it.ProductName, Quantity: it.Quantity, Total: it.Total().String()})
		}
		data["Lines"] = lines
		data["Subtotal"] = order.Subtotal.String()
		data["Shipping"] = order.ShippingCost.String()
		data["Tax"] = order.Tax.String()
		data["Total"] = order.Total.String()
		data["ShipTo"] = shipTo(order)
	}

	msg, err := mailer.Render(tmpl, p.store, data)
	if err != nil {
		jc.Fail("render", err)
		return nil
	}
	msg.To = sendgrid.EmailAddress{Email: order.Email, Name: order.FullName()}
	msg.Args = map[string]string{"order_number": order.OrderNumber, "job_id": jc.Job.ID.String()}

	jc.Progress("send", 60, "Sending email")
	res, err := mailer.Send(jc.Ctx, p.email, p.store, msg)
	if err != nil {
		jc.Fail("send", err)
		return nil
	}
	p.log.Info("Order email sent", "order_number", order.OrderNumber, "message_id", res.MessageID)
	jc.Succeed("done", map[string]any{
		"message_id":  res.MessageID,
		"status_code": res.StatusCode,
	})
	return nil
}

func shipTo(o *types.Order) string {
	parts := []string{
		o.FullName(),
		o.Address,
		strings.TrimSpace(fmt.Sprintf("%s, %s %s", o.City, o.State, o.ZipCode)),
		o.Country,
	}
	return strings.Join(parts, "\n")
}
