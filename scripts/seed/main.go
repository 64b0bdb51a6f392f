// Command seed loads sample score records into a running server through the
// public API. Useful for local development and demo environments.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"
)

type scorePayload struct {
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	ClassName   string  `json:"class_name"`
	Course      string  `json:"course"`
	Score       float64 `json:"score"`
	ExamDate    string  `json:"exam_date"`
}

func main() {
	var (
		base     string
		students int
		seed     int64
		timeout  time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.IntVar(&students, "students", 20, "Number of students per class")
	flag.Int64Var(&seed, "seed", 42, "Random seed")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	rng := rand.New(rand.NewSource(seed))
	client := &http.Client{Timeout: timeout}

	classes := []string{"3-1", "3-2"}
	courses := []string{"math", "english", "physics"}
	dates := []string{"2024-03-15", "2024-06-01"}
	names := []string{"Ana", "Ben", "Cleo", "Dee", "Eli", "Finn", "Gia", "Hana", "Ivo", "Jun"}

	total := 0
	for ci, class := range classes {
		for i := 0; i < students; i++ {
			studentID := fmt.Sprintf("S%d%03d", ci+1, i+1)
			name := names[i%len(names)]
			for _, course := range courses {
				for _, date := range dates {
					score := 40 + rng.Float64()*60
					payload := scorePayload{
						StudentID:   studentID,
						StudentName: name,
						ClassName:   class,
						Course:      course,
						Score:       float64(int(score*100)) / 100,
						ExamDate:    date,
					}
					if err := post(client, base+"/api/v1/scores", payload); err != nil {
						log.Fatalf("seed %s %s %s: %v", studentID, course, date, err)
					}
					total++
				}
			}
		}
	}
	log.Printf("seeded %d score records", total)
}

func post(client *http.Client, url string, payload scorePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
