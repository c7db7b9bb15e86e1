package mailer

var OrderConfirmation = Template{
	Name:    "order_confirmation",
	Subject: `{{.Store.Name}} order {{.OrderNumber}} confirmed`,
	Text: `Hi {{.FirstName}},

Thanks for your order! We're getting it ready.

Order {{.OrderNumber}}
{{range .Lines}}- {{.Name}} x{{.Quantity}}  ${{.Total}}
{{end}}
Subtotal: ${{.Subtotal}}
Shipping: ${{.Shipping}}
Tax:      ${{.Tax}}
Total:    ${{.Total}}

Shipping to:
{{.ShipTo}}

Track your order at {{.Store.URL}}/orders/{{.OrderNumber}}

{{.Store.Name}}
`,
	HTML: `<p>Hi {{.FirstName}},</p>
<p>Thanks for your order! We're getting it ready.</p>
<h2>Order {{.OrderNumber}}</h2>
<table>
{{range .Lines}}<tr><td>{{.Name}}</td><td>x{{.Quantity}}</td><td>${{.Total}}</td></tr>
{{end}}<tr><td colspan="2">Subtotal</td><td>${{.Subtotal}}</td></tr>
<tr><td colspan="2">Shipping</td><td>${{.Shipping}}</td></tr>
<tr><td colspan="2">Tax</td><td>${{.Tax}}</td></tr>
<tr><td colspan="2"><strong>Total</strong></td><td><strong>${{.Total}}</strong></td></tr>
</table>
<p>Shipping to:<br>{{.ShipTo}}</p>
<p><a href="{{.Store.URL}}/orders/{{.OrderNumber}}">Track your order</a></p>
<p>{{.Store.Name}}</p>
`,
}

var OrderStatus = Template{
	Name:    "order_status",
	Subject: `{{.Store.Name}} order {{.OrderNumber}} {{.Headline}}`,
	Text: `Hi {{.FirstName}},

Your order {{.OrderNumber}} {{.Headline}}.

See the details at {{.Store.URL}}/orders/{{.OrderNumber}}

{{.Store.Name}}
`,
	HTML: `<p>Hi {{.FirstName}},</p>
<p>Your order <strong>{{.OrderNumber}}</strong> {{.Headline}}.</p>
<p><a href="{{.Store.URL}}/orders/{{.OrderNumber}}">See the details</a></p>
<p>{{.Store.Name}}</p>
`,
}

var NewsletterWelcome = Template{
	Name:    "newsletter_welcome",
	Subject: `Welcome to the {{.Store.Name}} newsletter`,
	Text: `Thanks for subscribing!

You'll hear from us when there are new posts and products worth your time.

Changed your mind? Unsubscribe at {{.Store.URL}}/newsletter/unsubscribe?email={{.Email}}

{{.Store.Name}}
`,
	HTML: `<p>Thanks for subscribing!</p>
<p>You'll hear from us when there are new posts and products worth your time.</p>
<p><a href="{{.Store.URL}}/newsletter/unsubscribe?email={{.Email}}">Unsubscribe</a></p>
<p>{{.Store.Name}}</p>
`,
}
