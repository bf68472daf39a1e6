package config

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/joho/godotenv"
)

const (
	DefaultPort       = 8080
	DefaultAPIBaseURL = "http://localhost:8000/admin"
	DefaultMainAppURL = "/"
	DefaultDBPath     = "queryadmin.db"
	DefaultLogDir     = "logs"
	minSessionKeyLen  = 32
)

type Config struct {
	Port          int
	APIBaseURL    string
	MainAppURL    string
	SessionKey    string
	SecureCookies bool
	DBPath        string
	LogDir        string
}

func Load() (*Config, error) {
	// Try loading .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
	return FromEnv(".env")
}

// FromEnv builds the config from the process environment. A missing session
// key is generated and written to envFile.
func FromEnv(envFile string) (*Config, error) {
	key := os.Getenv("SESSION_KEY")
	if len(key) < minSessionKeyLen {
		fmt.Println("SESSION_KEY not found or too short. Generating a new secure key...")
		newKey, err := generateRandomKey(minSessionKeyLen)
		if err != nil {
			return nil, fmt.Errorf("failed to generate key: %w", err)
		}

		if err := saveKeyToEnv(envFile, newKey); err != nil {
			fmt.Printf("Warning: Failed to save generated key to %s: %v\n", envFile, err)
		} else {
			fmt.Printf("New SESSION_KEY saved to %s file.\n", envFile)
		}
		key = newKey
	}

	port := DefaultPort
	if portStr := os.Getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil || p <= 0 || p > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", portStr)
		}
		port = p
	}

	secure := false
	if s := os.Getenv("SECURE_COOKIES"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid SECURE_COOKIES %q: %w", s, err)
		}
		secure = b
	}

	return &Config{
		Port:          port,
		APIBaseURL:    strings.TrimRight(envOr("API_BASE_URL", DefaultAPIBaseURL), "/"),
		MainAppURL:    envOr("MAIN_APP_URL", DefaultMainAppURL),
		SessionKey:    key,
		SecureCookies: secure,
		DBPath:        envOr("DB_PATH", DefaultDBPath),
		LogDir:        envOr("LOG_DIR", DefaultLogDir),
	}, nil
}

func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func generateRandomKey(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func saveKeyToEnv(filename, key string) error {
	content, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return os.WriteFile(filename, []byte(fmt.Sprintf("SESSION_KEY=%s\nPORT=%d\n", key, DefaultPort)), 0600)
	} else if err != nil {
		return err
	}

	lines := strings.Split(decodeEnvFile(content), "\n")
	found := false
	newLines := []string{}

	for _, line := range lines {
		// Files saved as UTF-16 by some Windows editors leave NULs behind.
		trimmed := strings.ReplaceAll(strings.TrimSpace(line), "\x00", "")

		if strings.HasPrefix(trimmed, "SESSION_KEY=") {
			newLines = append(newLines, fmt.Sprintf("SESSION_KEY=%s", key))
			found = true
		} else if trimmed != "" {
			newLines = append(newLines, trimmed)
		}
	}

	if !found {
		newLines = append(newLines, fmt.Sprintf("SESSION_KEY=%s", key))
	}

	output := strings.Join(newLines, "\n") + "\n"
	return os.WriteFile(filename, []byte(output), 0600)
}

// decodeEnvFile returns the file as UTF-8, converting UTF-16LE content
// (with a BOM, or detected by a high share of NUL bytes).
func decodeEnvFile(content []byte) string {
	hasBOM := len(content) >= 2 && content[0] == 0xff && content[1] == 0xfe

	nullCount := 0
	if !hasBOM && len(content) > 10 {
		for _, b := range content {
			if b == 0 {
				nullCount++
			}
		}
	}
	isImplicitUTF16 := !hasBOM && len(content) > 0 && (float64(nullCount)/float64(len(content)) > 0.3)

	if !hasBOM && !isImplicitUTF16 {
		return string(content)
	}

	start := 0
	if hasBOM {
		start = 2
	}
	data := content[start:]
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}

	u16s := make([]uint16, len(data)/2)
	for i := range u16s {
		u16s[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return string(utf16.Decode(u16s))
}
