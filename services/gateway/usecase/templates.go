package usecase

import "github.com/jetfront/jetfront/internal/pkg/models"

// consumerTemplates is the static catalog of recommended consumer
// configurations. Clients post a template's request body, adjusted with
// their own name and filter, to the consumer create endpoint.
var consumerTemplates = []models.ConsumerTemplate{
	{
		Name:        "real-time-processor",
		Description: "Durable consumer that processes new messages as they arrive",
		UseCase:     "Event handlers that must not miss messages published while they run",
		Request: models.ConsumerCreateRequest{
			Durable:        true,
			DeliverPolicy:  models.DeliverNew,
			AckPolicy:      models.AckExplicit,
			AckWaitSeconds: 30,
			MaxDeliver:     3,
			MaxAckPending:  100,
		},
	},
	{
		Name:        "batch-processor",
		Description: "Durable consumer that replays the full stream in large batches",
		UseCase:     "Backfills, analytics jobs and migrations over historical data",
		Request: models.ConsumerCreateRequest{
			Durable:        true,
			DeliverPolicy:  models.DeliverAll,
			AckPolicy:      models.AckAll,
			AckWaitSeconds: 120,
			MaxAckPending:  1000,
		},
	},
	{
		Name:        "work-queue",
		Description: "Durable consumer with aggressive redelivery for task distribution",
		UseCase:     "Competing workers pulling jobs where each must complete or retry",
		Request: models.ConsumerCreateRequest{
			Durable:        true,
			DeliverPolicy:  models.DeliverAll,
			AckPolicy:      models.AckExplicit,
			AckWaitSeconds: 10,
			MaxDeliver:     5,
			MaxAckPending:  50,
		},
	},
	{
		Name:        "fire-and-forget",
		Description: "Ephemeral consumer without acknowledgements",
		UseCase:     "Dashboards and monitors where a dropped message costs nothing",
		Request: models.ConsumerCreateRequest{
			Durable:       false,
			DeliverPolicy: models.DeliverNew,
			AckPolicy:     models.AckNone,
		},
	},
	{
		Name:        "latest-only",
		Description: "Ephemeral consumer that starts from the most recent message",
		UseCase:     "Current-state displays that only care about the newest value",
		Request: models.ConsumerCreateRequest{
			Durable:       false,
			DeliverPolicy: models.DeliverLast,
			AckPolicy:     models.AckNone,
		},
	},
	{
		Name:        "durable-processor",
		Description: "Durable consumer with conservative, at-least-once delivery",
		UseCase:     "Business-critical processing that must survive restarts",
		Request: models.ConsumerCreateRequest{
			Durable:        true,
			DeliverPolicy:  models.DeliverAll,
			AckPolicy:      models.AckExplicit,
			AckWaitSeconds: 60,
			MaxDeliver:     10,
			MaxAckPending:  200,
		},
	},
}

// Templates returns the consumer template catalog
func (uc *GatewayUC) Templates() []models.ConsumerTemplate {
	out := make([]models.ConsumerTemplate, len(consumerTemplates))
	copy(out, consumerTemplates)
	return out
}
