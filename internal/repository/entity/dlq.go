package entity

import "time"

// KafkaDlq keeps queue events the publisher could not deliver.
type KafkaDlq struct {
	ID            uint `gorm:"primaryKey"`
	Topic         string
	Key           string
	Payload       []byte
	AttemptCount  int
	LastAttemptAt time.Time
}

func (KafkaDlq) TableName() string {
	return "kafka_dlq"
}
