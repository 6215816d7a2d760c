// Package render turns the pet state into the Markdown status document.
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/wuwu/internal/domain"
	"github.com/naka-gawa/wuwu/internal/filelock"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultAsset is shown when no image exists for the current mood.
	DefaultAsset  = "wuwu.svg"
	assetExt      = ".svg"
	missingValue  = "—"
	timestampForm = "2006-01-02 15:04"
)

var readmeTemplate = template.Must(template.New("readme").Parse(`
# Meet {{.Name}}

<p align="center">
  <img src="{{.Image}}" width="180" alt="{{.Name}}'s current mood: {{.Mood}}" />
</p>

---

### Current Stats

| Attribute | Value |
|------------|--------|
| **Age** | {{.AgeMonths}} months |
| **Mood** | {{.Mood}} |
| **Health** | {{.Health}}% |
| **Food** | {{.Food}}% |
| **Intelligence** | {{.Intelligence}}% |
| **Knowledge** | {{.Knowledge}}% |
| **Overall** | {{.Overall}}% |
| **Last Updated** | {{.LastUpdated}} |

---

### Activity Insights
| Metric | Value |
|---------|-------|
| **Commits Today** | {{.CommitsToday}} |
| **Followers** | {{.Followers}} |
| **Stars on Main Repo** | {{.Stars}} |
| **Public Repos** | {{.TotalRepos}} |

---

### About {{.Name}}
> {{.Name}} evolves from my GitHub life: commits feed its mind, stars fuel its energy, and followers shape its personality.
> The more I build, the smarter and stronger {{.Name}} grows.

---

<p align="center">
  <sub>Updated automatically by [GitHub Actions](.github/workflows/wuwu.yml)</sub>
</p>
`))

// view is the flattened data the template consumes.
type view struct {
	Name         string
	Image        string
	Mood         domain.Mood
	AgeMonths    int
	Health       int
	Food         int
	Intelligence int
	Knowledge    int
	Overall      int
	LastUpdated  string
	CommitsToday string
	Followers    string
	Stars        string
	TotalRepos   string
}

// Renderer writes the status document for a pet state.
type Renderer struct {
	readmePath string
	assetsDir  string
	location   *time.Location
	logger     logrus.FieldLogger
}

// NewRenderer creates a Renderer writing to readmePath with images looked up in assetsDir.
// Timestamps are shown in loc.
func NewRenderer(readmePath, assetsDir string, loc *time.Location, logger logrus.FieldLogger) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{
		readmePath: readmePath,
		assetsDir:  assetsDir,
		location:   loc,
		logger:     logger,
	}
}

// Render produces the document for state without touching the filesystem
// other than checking which mood images exist.
func (r *Renderer) Render(state domain.PetState) ([]byte, error) {
	overall, err := overallScore(state.Status)
	if err != nil {
		return nil, err
	}
	v := view{
		Name:         state.DisplayName(),
		Image:        r.imageRef(state.Status.Mood),
		Mood:         state.Status.Mood,
		AgeMonths:    state.Status.AgeMonths,
		Health:       state.Status.Health,
		Food:         state.Status.Food,
		Intelligence: state.Status.Intelligence,
		Knowledge:    state.Status.Knowledge,
		Overall:      overall,
		LastUpdated:  state.LastUpdated.In(r.location).Format(timestampForm),
		CommitsToday: missingValue,
		Followers:    missingValue,
		Stars:        missingValue,
		TotalRepos:   missingValue,
	}
	if a := state.Activity; a != nil {
		v.CommitsToday = strconv.Itoa(a.CommitsToday)
		v.Followers = strconv.Itoa(a.Followers)
		v.Stars = strconv.Itoa(a.Stars)
		v.TotalRepos = strconv.Itoa(a.TotalRepos)
	}

	var buf bytes.Buffer
	if err := readmeTemplate.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	return []byte(strings.TrimSpace(buf.String())), nil
}

// Write renders state and overwrites the document.
func (r *Renderer) Write(state domain.PetState) error {
	doc, err := r.Render(state)
	if err != nil {
		return err
	}
	if err := filelock.AtomicWrite(r.readmePath, doc); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	r.logger.Infof("%s updated.", r.readmePath)
	return nil
}

// imageRef returns the image link for mood, relative to the document.
func (r *Renderer) imageRef(mood domain.Mood) string {
	asset := filepath.Join(r.assetsDir, DefaultAsset)
	if mood != "" {
		candidate := filepath.Join(r.assetsDir, string(mood)+assetExt)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			asset = candidate
		} else {
			r.logger.Debugf("No image for mood %q, using %s", mood, DefaultAsset)
		}
	}
	rel, err := filepath.Rel(filepath.Dir(r.readmePath), asset)
	if err != nil {
		rel = asset
	}
	return "./" + filepath.ToSlash(rel)
}

// overallScore is the rounded mean of the four percentage stats.
func overallScore(s domain.Status) (int, error) {
	mean, err := stats.Mean(stats.Float64Data{
		float64(s.Food), float64(s.Health), float64(s.Intelligence), float64(s.Knowledge),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to compute overall score: %w", err)
	}
	rounded, err := stats.Round(mean, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to compute overall score: %w", err)
	}
	return int(rounded), nil
}
