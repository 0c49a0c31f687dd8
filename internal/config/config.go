package config

import "os"

type Config struct {
	Port              string
	MongoURI          string
	MongoDatabase     string
	JWTSecret         string
	FCMServiceAccount string
	SendgridKey       string
	EmailFrom         string
	AppName           string
	GeminiAPIKey      string
	GeminiEndpoint    string
	PaymentKeySecret  string
}

func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("MONGO_DATABASE", "studyhall"),
		JWTSecret:         getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		FCMServiceAccount: getEnv("FCM_SERVICE_ACCOUNT", ""),
		SendgridKey:       getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:         getEnv("EMAIL_FROM", "noreply@studyhall.app"),
		AppName:           getEnv("APP_NAME", "StudyHall"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiEndpoint:    getEnv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"),
		PaymentKeySecret:  getEnv("PAYMENT_KEY_SECRET", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
