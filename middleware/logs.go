package middleware

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"DentalClinic/Models"
)

// LogData is one request log line.
type LogData struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Latency   time.Duration `json:"latency"`
	IP        string        `json:"ip"`
	UserID    interface{}   `json:"user_id,omitempty"`
	Username  string        `json:"username,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// RequestLogger logs every request to the console and appends a JSON line
// to logs/requests.log, with user attribution when Verify has run.
func RequestLogger() fiber.Handler {
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Error creating logs directory: %v\n", err)
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		data := LogData{
			Timestamp: start,
			Method:    c.Method(),
			Path:      c.Path(),
			Status:    c.Response().StatusCode(),
			Latency:   time.Since(start),
			IP:        c.IP(),
		}
		if user, ok := c.Locals("user").(Models.User); ok {
			data.UserID = user.Id
			data.Username = user.Name
		}
		if err != nil {
			data.Error = err.Error()
		}

		log.Printf("%s %s %d %s %s", data.Method, data.Path, data.Status, data.Latency, data.IP)
		logToFile("logs/requests.log", data)

		return err
	}
}

func logToFile(path string, data LogData) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}
	defer file.Close()

	line, _ := json.Marshal(data)
	if _, err := file.Write(append(line, '\n')); err != nil {
		log.Printf("Error writing to log file: %v\n", err)
	}
}
