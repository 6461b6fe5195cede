// Package jobs defines queue jobs and wires domain events to them.
package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/plantnet/app/models"
	"github.com/shashiranjanraj/plantnet/pkg/notification"
	"github.com/shashiranjanraj/plantnet/pkg/queue"
)

// OrderMailJob emails one party about a placed order. Fields are
// exported so the job survives the queue's JSON round trip.
type OrderMailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (j *OrderMailJob) Via() []string { return []string{"mail"} }

func (j *OrderMailJob) ToMail() notification.MailData {
	return notification.MailData{Subject: j.Subject, Body: j.Body}
}

func (j *OrderMailJob) Handle() error {
	errs := notification.Send(j.To, j)
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func orderConfirmation(order models.Order) *OrderMailJob {
	return &OrderMailJob{
		To:      order.Customer.Email,
		Subject: fmt.Sprintf("Order confirmed: %s", order.PlantName),
		Body: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your order for <b>%d × %s</b> is confirmed.</p><p>Order reference: %s</p>",
			order.Customer.Name, order.Quantity, order.PlantName, order.ID.Hex()),
	}
}

func sellerNotice(order models.Order) *OrderMailJob {
	return &OrderMailJob{
		To:      order.Seller.Email,
		Subject: fmt.Sprintf("New order: %s", order.PlantName),
		Body: fmt.Sprintf(
			"<p>Hi %s,</p><p>%s ordered <b>%d × %s</b>.</p><p>Order reference: %s</p>",
			order.Seller.Name, order.Customer.Email, order.Quantity, order.PlantName, order.ID.Hex()),
	}
}

// RegisterJobs registers every job type with the queue so workers can
// rebuild them from their serialized form. Call once at boot.
func RegisterJobs() {
	queue.Register("*jobs.OrderMailJob", func() queue.Job { return &OrderMailJob{} })
}
