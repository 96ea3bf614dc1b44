package config

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID string) *Slack {
	return &Slack{
		botToken:  botToken,
		channelID: channelID,
	}
}

// NewAuthForTest creates an Auth config for testing purposes
func NewAuthForTest(signingSecret, issuer, audience, noAuthSub string) *Auth {
	return &Auth{
		signingSecret: signingSecret,
		issuer:        issuer,
		audience:      audience,
		noAuthSub:     noAuthSub,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, databaseID string) *Repository {
	return &Repository{
		backend:    backend,
		projectID:  projectID,
		databaseID: databaseID,
	}
}

// NewScoringForTest creates a Scoring config for testing purposes
func NewScoringForTest(configPath string) *Scoring {
	return &Scoring{
		configPath: configPath,
	}
}
