package constant

import (
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	InquiryTableName = "livechat_inquiry"

	RedisSortModeKey = "livechat:queue:sort_mode"

	TopicRoomEvents    = "livechat.room.events"
	TopicInquiryEvents = "livechat.inquiry.events"

	KafkaConsumerGroup = "inquiry-queue"
	KafkaProducerAcks  = kafka.RequireAll
	KafkaWriteTimeout  = 5 * time.Second
	KafkaWorkerCount   = 4
	KafkaWorkerBufSize = 10000 // capacity of in-memory event channel
	KafkaWriteRetries  = 3
	KafkaRetryBackoff  = 500 * time.Millisecond

	DBTxTimeout = 2 * time.Second // keep store calls short

	// DefaultPriorityWeight and DefaultEstimatedWaitingTimeQueue sort
	// inquiries without a priority or SLA after those that have one.
	DefaultPriorityWeight            = 99999
	DefaultEstimatedWaitingTimeQueue = 9999999

	EventBatchSize     = 100
	EventFlushInterval = 1 * time.Second
)
