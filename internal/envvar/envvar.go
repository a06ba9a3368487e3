package envvar

const (
	// SoundsenseEnv is the environment variable used to determine the environment
	SoundsenseEnv = "SOUNDSENSE_ENV"

	// SoundsenseModelsPath is the environment variable used to override the models directory
	SoundsenseModelsPath = "SOUNDSENSE_MODELS_PATH"

	// SoundsenseServerHTTPPort is the environment variable used to determine the HTTP port
	SoundsenseServerHTTPPort = "SOUNDSENSE_SERVER_HTTP_PORT"
)
