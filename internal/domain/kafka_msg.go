package domain

type KafkaMessage struct {
	Key     string
	Payload []byte
	Topic   string
	// Attempts counts how many times producers tried to write the message.
	Attempts int
}
