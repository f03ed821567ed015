package cfg

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

type Config struct {
	Http   *HTTPConfig
	Db     *PGDBCfg
	Redis  *RedisCfg
	Minio  *MinIOCfg
	Kafka  *KafkaCfg
	Soap   *SoapCfg
	Sheets *SheetsCfg
	Sync   *SyncCfg
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PGDBCfg struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConns       int32
	MigrationsPath string
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	ReportTTL   time.Duration // сколько хранится последний отчёт синхронизации
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Бакет, куда публикуются фиды
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
	FeedPrefix        string // Префикс ключей фидов, например feeds/
}

// KafkaCfg — события каталога. Если Brokers пустой, события не отправляются.
type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

func (k *KafkaCfg) Enabled() bool {
	return len(k.Brokers) > 0
}

// SoapCfg описывает удалённый сервис каталога.
type SoapCfg struct {
	Endpoint      string
	APIKey        string
	Namespace     string
	Operation     string
	ResultNode    string
	SOAPAction    string
	Filters       string // JSON-массив фильтров, передаётся как есть
	SortField     string
	SortDirection string
	Timeout       time.Duration
	FailOpen      bool // битый JSON внутри ответа считается пустой страницей
}

type SheetsCfg struct {
	SpreadsheetID   string
	CredentialsFile string
	SheetName       string
	ResetOnDrift    bool
}

type SyncCfg struct {
	Schedule       string // cron-выражение синхронизации каталога, пусто — выключено
	MirrorSchedule string // cron-выражение обновления таблицы согласования
	FirstPage      int
	MaxPages       int // 0 — без ограничения
	FetchTimeout   time.Duration
	StoreTimeout   time.Duration
	LockTTL        time.Duration
	MaxAttempts    int
	RetryBase      time.Duration
	RetryMax       time.Duration
	PriceKeyword   string
	DefaultTaxRate int
	DefaultLang    string
	Languages      []string
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
// Перед чтением переменных окружения подгружается необязательный .env.
func Load(log logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf(".env not loaded: %v", err)
	}

	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	soap, err := loadSoapCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	sheets, err := loadSheetsCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	sync, err := loadSyncCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Http:   http,
		Db:     db,
		Redis:  redis,
		Minio:  minio,
		Kafka:  kafka,
		Soap:   soap,
		Sheets: sheets,
		Sync:   sync,
	}, nil
}

func loadKafkaCfg(log logger.Logger) (*KafkaCfg, error) {
	const (
		defaultTopic             = "catalog-events"
		defaultNetworkMode       = "tcp"
		defaultPartitions        = 3
		defaultReplicationFactor = 1
	)

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil || partitions <= 0 {
		err = e.Wrap("KAFKA_PARTITIONS", e.ErrIncorrectEnvVariable)
		log.Errorf(err, "invalid KAFKA_PARTITIONS")
		return nil, err
	}

	replication, err := parseIntEnv("KAFKA_REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil || replication <= 0 {
		err = e.Wrap("KAFKA_REPLICATION_FACTOR", e.ErrIncorrectEnvVariable)
		log.Errorf(err, "invalid KAFKA_REPLICATION_FACTOR")
		return nil, err
	}

	var brokers []string
	if brokerStr := getEnv("KAFKA_BROKERS"); brokerStr != "" {
		for _, b := range strings.Split(brokerStr, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
		Partitions:        partitions,
		ReplicationFactor: replication,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL     = false
		defaultEndpoint   = "minio:9000"
		defaultBucket     = "catalog-feeds"
		defaultFeedPrefix = "feeds/"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		FeedPrefix:        getEnvOrDefault("FEED_PREFIX", defaultFeedPrefix),
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Minute // синхронизация по HTTP может идти долго
		defaultIdleTimeout  = 60 * time.Second
	)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         getEnvOrDefault("HTTP_PORT", defaultPort),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost           = "localhost"
		defaultPort           = "5432"
		defaultSSLMode        = "disable"
		defaultMaxConns       = 10
		defaultMigrationsPath = "file://db/migrations"
	)

	user, err := requireEnv(log, "POSTGRES_USER")
	if err != nil {
		return nil, err
	}

	password, err := requireEnv(log, "POSTGRES_PASSWORD")
	if err != nil {
		return nil, err
	}

	dbName, err := requireEnv(log, "POSTGRES_DB")
	if err != nil {
		return nil, err
	}

	maxConns, err := parseIntEnv("POSTGRES_MAX_CONNS", defaultMaxConns)
	if err != nil || maxConns <= 0 {
		log.Errorf(err, "invalid POSTGRES_MAX_CONNS")
		return nil, e.Wrap("POSTGRES_MAX_CONNS", e.ErrIncorrectEnvVariable)
	}

	return &PGDBCfg{
		Host:           getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:           getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:           user,
		Password:       password,
		DBName:         dbName,
		SSLMode:        getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MaxConns:       int32(maxConns),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", defaultMigrationsPath),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultReportTTL    = 7 * 24 * time.Hour
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	reportTTL, err := parseDurationEnv("SYNC_REPORT_TTL", defaultReportTTL)
	if err != nil {
		log.Errorf(err, "invalid SYNC_REPORT_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		ReportTTL:   reportTTL,
	}, nil
}

func loadSoapCfg(log logger.Logger) (*SoapCfg, error) {
	const (
		defaultNamespace     = "http://tempuri.org/"
		defaultOperation     = "GetProducts"
		defaultFilters       = "[]"
		defaultSortField     = "id"
		defaultSortDirection = "ASC"
		defaultTimeout       = 30 * time.Second
		defaultFailOpen      = true
	)

	endpoint, err := requireEnv(log, "SOAP_ENDPOINT")
	if err != nil {
		return nil, err
	}

	apiKey, err := requireEnv(log, "SOAP_API_KEY")
	if err != nil {
		return nil, err
	}

	filters := getEnvOrDefault("SOAP_FILTERS", defaultFilters)
	var filterList []json.RawMessage
	if err := json.Unmarshal([]byte(filters), &filterList); err != nil || filterList == nil {
		err := e.Wrap("SOAP_FILTERS", e.ErrIncorrectEnvVariable)
		log.Errorf(err, "SOAP_FILTERS must be a JSON array")
		return nil, err
	}

	timeout, err := parseDurationEnv("SOAP_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid SOAP_TIMEOUT")
		return nil, err
	}

	failOpen, err := strconv.ParseBool(getEnvOrDefault("SOAP_FAIL_OPEN", strconv.FormatBool(defaultFailOpen)))
	if err != nil {
		log.Errorf(err, "invalid SOAP_FAIL_OPEN")
		return nil, err
	}

	namespace := getEnvOrDefault("SOAP_NAMESPACE", defaultNamespace)
	operation := getEnvOrDefault("SOAP_OPERATION", defaultOperation)

	return &SoapCfg{
		Endpoint:      endpoint,
		APIKey:        apiKey,
		Namespace:     namespace,
		Operation:     operation,
		ResultNode:    getEnvOrDefault("SOAP_RESULT_NODE", operation+"Result"),
		SOAPAction:    getEnvOrDefault("SOAP_ACTION", namespace+operation),
		Filters:       filters,
		SortField:     getEnvOrDefault("SOAP_SORT_FIELD", defaultSortField),
		SortDirection: strings.ToUpper(getEnvOrDefault("SOAP_SORT_DIRECTION", defaultSortDirection)),
		Timeout:       timeout,
		FailOpen:      failOpen,
	}, nil
}

func loadSheetsCfg(log logger.Logger) (*SheetsCfg, error) {
	const defaultSheetName = "Catalogo"

	spreadsheetID, err := requireEnv(log, "SHEETS_SPREADSHEET_ID")
	if err != nil {
		return nil, err
	}

	credentials, err := requireEnv(log, "SHEETS_CREDENTIALS_FILE")
	if err != nil {
		return nil, err
	}

	resetOnDrift, err := strconv.ParseBool(getEnvOrDefault("SHEETS_RESET_ON_DRIFT", "false"))
	if err != nil {
		log.Errorf(err, "invalid SHEETS_RESET_ON_DRIFT")
		return nil, err
	}

	return &SheetsCfg{
		SpreadsheetID:   spreadsheetID,
		CredentialsFile: credentials,
		SheetName:       getEnvOrDefault("SHEETS_SHEET_NAME", defaultSheetName),
		ResetOnDrift:    resetOnDrift,
	}, nil
}

func loadSyncCfg(log logger.Logger) (*SyncCfg, error) {
	const (
		defaultFirstPage    = 1
		defaultMaxPages     = 0
		defaultFetchTimeout = 60 * time.Second
		defaultStoreTimeout = 5 * time.Second
		defaultLockTTL      = 30 * time.Minute
		defaultMaxAttempts  = 3
		defaultRetryBase    = 30 * time.Second
		defaultRetryMax     = 10 * time.Minute
		defaultPriceKeyword = "negozio"
		defaultTaxRate      = 22
		defaultLang         = "IT"
		defaultLanguages    = "IT,FR,ES,DE"
	)

	firstPage, err := parseNonNegativeIntEnv(log, "SYNC_FIRST_PAGE", defaultFirstPage)
	if err != nil {
		return nil, err
	}

	maxPages, err := parseNonNegativeIntEnv(log, "SYNC_MAX_PAGES", defaultMaxPages)
	if err != nil {
		return nil, err
	}

	maxAttempts, err := parseNonNegativeIntEnv(log, "SYNC_MAX_ATTEMPTS", defaultMaxAttempts)
	if err != nil {
		return nil, err
	}
	if maxAttempts == 0 {
		maxAttempts = 1
	}

	taxRate, err := parseNonNegativeIntEnv(log, "DEFAULT_TAX_RATE", defaultTaxRate)
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDurationEnv("SYNC_FETCH_TIMEOUT", defaultFetchTimeout)
	if err != nil {
		log.Errorf(err, "invalid SYNC_FETCH_TIMEOUT")
		return nil, err
	}

	storeTimeout, err := parseDurationEnv("SYNC_STORE_TIMEOUT", defaultStoreTimeout)
	if err != nil {
		log.Errorf(err, "invalid SYNC_STORE_TIMEOUT")
		return nil, err
	}

	lockTTL, err := parseDurationEnv("SYNC_LOCK_TTL", defaultLockTTL)
	if err != nil {
		log.Errorf(err, "invalid SYNC_LOCK_TTL")
		return nil, err
	}

	retryBase, err := parseDurationEnv("SYNC_RETRY_BASE", defaultRetryBase)
	if err != nil {
		log.Errorf(err, "invalid SYNC_RETRY_BASE")
		return nil, err
	}

	retryMax, err := parseDurationEnv("SYNC_RETRY_MAX", defaultRetryMax)
	if err != nil {
		log.Errorf(err, "invalid SYNC_RETRY_MAX")
		return nil, err
	}

	var languages []string
	for _, l := range strings.Split(getEnvOrDefault("CATALOG_LANGUAGES", defaultLanguages), ",") {
		if l = strings.ToUpper(strings.TrimSpace(l)); l != "" {
			languages = append(languages, l)
		}
	}

	defaultLanguage := strings.ToUpper(getEnvOrDefault("CATALOG_DEFAULT_LANGUAGE", defaultLang))
	if !slices.Contains(languages, defaultLanguage) {
		err := fmt.Errorf("CATALOG_DEFAULT_LANGUAGE %q is not in CATALOG_LANGUAGES: %w", defaultLanguage, e.ErrIncorrectEnvVariable)
		log.Errorf(err, "invalid language configuration")
		return nil, err
	}

	return &SyncCfg{
		Schedule:       getEnv("SYNC_SCHEDULE"),
		MirrorSchedule: getEnv("MIRROR_SYNC_SCHEDULE"),
		FirstPage:      firstPage,
		MaxPages:       maxPages,
		FetchTimeout:   fetchTimeout,
		StoreTimeout:   storeTimeout,
		LockTTL:        lockTTL,
		MaxAttempts:    maxAttempts,
		RetryBase:      retryBase,
		RetryMax:       retryMax,
		PriceKeyword:   getEnvOrDefault("PRICE_KEYWORD", defaultPriceKeyword),
		DefaultTaxRate: taxRate,
		DefaultLang:    defaultLanguage,
		Languages:      languages,
	}, nil
}

// requireEnv возвращает значение обязательной переменной или ErrMissingConfig.
func requireEnv(log logger.Logger, key string) (string, error) {
	v := strings.TrimSpace(getEnv(key))
	if v == "" {
		err := e.Wrap(key, e.ErrMissingConfig)
		log.Errorf(err, "missing %s", key)
		return "", err
	}

	return v, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

func parseNonNegativeIntEnv(log logger.Logger, key string, defaultValue int) (int, error) {
	v, err := parseIntEnv(key, defaultValue)
	if err != nil || v < 0 {
		err = e.Wrap(key, e.ErrIncorrectEnvVariable)
		log.Errorf(err, "invalid %s", key)
		return 0, err
	}

	return v, nil
}
