// Command layoutctl checks and rewrites layout files offline.
//
//	layoutctl validate <file>
//	layoutctl summary  <file>
//	layoutctl renumber <file>
//	layoutctl token    <user-id> [email]
//
// Files may be YAML (.yaml, .yml) or JSON (.json), in the same shape the
// export endpoint produces.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lalith-99/plotgrid/internal/auth"
	"github.com/lalith-99/plotgrid/internal/config"
	"github.com/lalith-99/plotgrid/internal/layout"
)

const usage = "usage: layoutctl validate|summary|renumber <file> | token <user-id> [email]"

// errInvalid makes validate exit non-zero without a second message.
var errInvalid = errors.New("layout is not publishable")

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errInvalid) {
			log.Print(err)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 2 {
		return errors.New(usage)
	}

	switch args[0] {
	case "validate":
		return runValidate(args[1], out)
	case "summary":
		return runSummary(args[1], out)
	case "renumber":
		return runRenumber(args[1], out)
	case "token":
		return runToken(args[1:], out)
	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage)
	}
}

func readDraft(path string) (*layout.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return layout.DecodeJSON(data)
	case ".yaml", ".yml":
		return layout.DecodeYAML(data)
	default:
		return nil, fmt.Errorf("%s: want a .yaml, .yml or .json file", path)
	}
}

func runValidate(path string, out io.Writer) error {
	d, err := readDraft(path)
	if err != nil {
		return err
	}
	failures := layout.ValidateAll(d.Name, d.Grid)
	if len(failures) == 0 {
		fmt.Fprintf(out, "%s: ok\n", path)
		return nil
	}
	for _, f := range failures {
		fmt.Fprintf(out, "%s: %s: %s\n", path, f.Rule, f.Reason)
	}
	return errInvalid
}

type summaryReport struct {
	Name        string           `yaml:"name"`
	GridSize    layout.GridSize  `yaml:"gridSize"`
	Summary     layout.Summary   `yaml:"summary"`
	PlotStats   layout.PlotStats `yaml:"plotStats"`
	Publishable bool             `yaml:"publishable"`
}

func runSummary(path string, out io.Writer) error {
	d, err := readDraft(path)
	if err != nil {
		return err
	}
	report := summaryReport{
		Name:        d.Name,
		GridSize:    d.Grid.Size(),
		Summary:     d.Summary(),
		PlotStats:   d.Grid.PlotStats(),
		Publishable: d.Validate().OK,
	}
	enc := yaml.NewEncoder(out)
	defer enc.Close()
	return enc.Encode(report)
}

func runRenumber(path string, out io.Writer) error {
	d, err := readDraft(path)
	if err != nil {
		return err
	}
	d.Grid.Renumber()
	data, err := layout.EncodeYAML(d)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// runToken mints a development JWT signed with JWT_SECRET.
func runToken(args []string, out io.Writer) error {
	secret := config.GetEnv("JWT_SECRET", "")
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	email := ""
	if len(args) > 1 {
		email = args[1]
	}
	token, err := auth.GenerateToken(args[0], email, secret, 24*time.Hour)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}
