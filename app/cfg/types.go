package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// External providers
	NewsAPIKey     string
	NewsAPIBaseURL string
	CohereAPIKey   string
	CohereModel    string

	// Application configuration
	Port            string
	AdminSecret     string
	SourcesFile     string
	SummaryWorkers  int
	RefreshInterval int // minutes, 0 disables the background scheduler
	RedisAddr       string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
