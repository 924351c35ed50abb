package orders

const (
	TopicOrderEvents       = "kiosk.order.events"
	TopicPublicationEvents = "kiosk.publication.events"
)

// Partition key = aggregate id, so every event of one order keeps its order.
func PartitionKey(id string) []byte { return []byte(id) }
