package commands

import (
	"encoding/json"
	"time"

	"refinery/contexts/data-refinery/marketplace-service/ports"
)

// TopicPackageSold carries sale events out of the marketplace module.
const TopicPackageSold = "marketplace.package_sold"

func newMarketplaceEnvelope(
	eventID string,
	eventType string,
	listingID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "marketplace-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "listing_id",
		PartitionKey:     listingID,
		Data:             payload,
	}, nil
}
