package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/plantnet/app/models"
	"github.com/shashiranjanraj/plantnet/pkg/event"
	"github.com/shashiranjanraj/plantnet/pkg/logger"
	"github.com/shashiranjanraj/plantnet/pkg/queue"
)

// RegisterListeners subscribes queue jobs to domain events. Dispatch
// failures are logged; notifications never block or fail an order.
func RegisterListeners() {
	event.Listen("order.created", func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			logger.Error("listener: order.created payload is not an order",
				"type", typeName(payload))
			return
		}
		for _, job := range []*OrderMailJob{
			orderConfirmation(order),
			sellerNotice(order),
		} {
			if err := queue.Dispatch(job); err != nil {
				logger.Error("listener: dispatch order mail",
					"to", job.To, "error", err)
			}
		}
	})
}

func typeName(v interface{}) string {
	return fmt.Sprintf("%T", v)
}
