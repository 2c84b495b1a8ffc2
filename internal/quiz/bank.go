package quiz

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// BankFile is the on-disk YAML form of an assessment and its questions.
type BankFile struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Subject     string     `yaml:"subject"`
	DurationSec int        `yaml:"durationSec"`
	Questions   []Question `yaml:"questions"`
}

// Bank builds the validated question bank described by the file.
func (f BankFile) Bank() (*Bank, error) {
	return NewBank(f.ID, f.Questions)
}

func ParseBankFile(data []byte) (BankFile, error) {
	var f BankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return BankFile{}, fmt.Errorf("parse bank: %w", err)
	}
	f.ID = strings.TrimSpace(f.ID)
	if f.ID == "" {
		return BankFile{}, fmt.Errorf("%w: missing id", ErrInvalidBank)
	}
	if strings.TrimSpace(f.Title) == "" {
		return BankFile{}, fmt.Errorf("%w: %s: missing title", ErrInvalidBank, f.ID)
	}
	if _, err := f.Bank(); err != nil {
		return BankFile{}, fmt.Errorf("%s: %w", f.ID, err)
	}
	return f, nil
}

func LoadBankFile(path string) (BankFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BankFile{}, err
	}
	f, err := ParseBankFile(data)
	if err != nil {
		return BankFile{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return f, nil
}

// LoadBankDir loads every *.yaml / *.yml file in dir, sorted by file name.
func LoadBankDir(dir string) ([]BankFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]BankFile, 0, len(names))
	seen := map[string]string{}
	for _, n := range names {
		f, err := LoadBankFile(filepath.Join(dir, n))
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[f.ID]; dup {
			return nil, fmt.Errorf("%w: id %q declared in %s and %s", ErrInvalidBank, f.ID, prev, n)
		}
		seen[f.ID] = n
		out = append(out, f)
	}
	return out, nil
}

// DemoAssessmentID identifies the built-in mathematics assessment.
const DemoAssessmentID = "math-derivatives-ch5"

// DemoBankFile is the three-question mathematics assessment seeded on startup.
func DemoBankFile() BankFile {
	return BankFile{
		ID:          DemoAssessmentID,
		Title:       "Mathematics Assessment",
		Subject:     "Chapter 5: Derivatives",
		DurationSec: 1800,
		Questions: []Question{
			{
				ID:   1,
				Text: "What is the derivative of f(x) = x² + 3x - 5?",
				Options: []Option{
					{ID: "a", Text: "2x + 3"},
					{ID: "b", Text: "x + 3"},
					{ID: "c", Text: "2x - 3"},
					{ID: "d", Text: "x² + 3"},
				},
				CorrectAnswer: "a",
			},
			{
				ID:   2,
				Text: "Solve for x: 2x + 5 = 15",
				Options: []Option{
					{ID: "a", Text: "x = 5"},
					{ID: "b", Text: "x = 10"},
					{ID: "c", Text: "x = 7.5"},
					{ID: "d", Text: "x = 2.5"},
				},
				CorrectAnswer: "a",
			},
			{
				ID:   3,
				Text: "What is the area of a circle with radius 5?",
				Options: []Option{
					{ID: "a", Text: "25π"},
					{ID: "b", Text: "10π"},
					{ID: "c", Text: "5π"},
					{ID: "d", Text: "15π"},
				},
				CorrectAnswer: "a",
			},
		},
	}
}
