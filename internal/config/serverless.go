package config

import (
	"os"
	"sync"
	"time"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	Platform     string
	FunctionName string
	Region       string
	Stage        string
}

const serverlessUpstreamTimeout = 25 * time.Second

// Global serverless configuration
var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = detectServerless()
	})
	return serverlessConfig
}

func detectServerless() *ServerlessConfig {
	sc := &ServerlessConfig{
		Platform: detectPlatform(),
		Stage:    GetEnv("STAGE", "dev"),
	}
	switch sc.Platform {
	case "lambda":
		sc.FunctionName = os.Getenv("AWS_LAMBDA_FUNCTION_NAME")
		sc.Region = os.Getenv("AWS_REGION")
	case "vercel":
		sc.Region = os.Getenv("VERCEL_REGION")
		sc.Stage = GetEnv("VERCEL_ENV", sc.Stage)
	}
	return sc
}

// detectPlatform identifies the hosting runtime from its well-known variables
func detectPlatform() string {
	switch {
	case os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "":
		return "lambda"
	case os.Getenv("VERCEL") != "":
		return "vercel"
	default:
		return ""
	}
}

// IsServerlessMode returns true if running in serverless mode
func IsServerlessMode() bool {
	return GetServerlessConfig().Platform != ""
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if IsServerlessMode() {
		return "serverless"
	}
	return "server"
}

// GetOptimizedConfig returns configuration optimized for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	// Serverless platforms cap invocation time well below the server default
	if IsServerlessMode() && config.Gemini.Timeout > serverlessUpstreamTimeout {
		config.Gemini.Timeout = serverlessUpstreamTimeout
	}

	return config, nil
}
