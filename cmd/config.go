package cmd

import "time"

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	HTTPPort string
	LogLevel string

	StoreDriver string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSslMode   string

	WorkerPoolSize     int
	QueueCapacity      int
	AcquisitionDelay   time.Duration
	ProcessingDelayMin time.Duration
	ProcessingDelayMax time.Duration

	RecoverPendingOnStart   bool
	PendingRecoverySchedule string
	MetricsReportSchedule   string

	KafkaHost              string
	KafkaOrderChangedTopic string

	RedisAddr      string
	StatusCacheTTL time.Duration
}
