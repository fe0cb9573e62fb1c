package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ablo-dev/ablofiles/internal/ux"
)

var configTemplate = `tags:
  start-tag: '<ablo-code>'
  end-tag: '</ablo-code>'
  thinking-tag: ablo-thinking
  write-tag: ablo-write
  modify-tag: ablo-modify

storage:
  backend: fs          # fs or sqlite
  root: .ablofiles
  # db-path: .ablofiles/ablofiles.db
`

var transcriptTemplate = `{"id":"msg-1","role":"assistant","text":"I'll create a component."}
{"id":"msg-1","role":"assistant","text":"I'll create a component.\n\n<ablo-code><ablo-write file_path=\"Button.tsx\">"}
{"id":"msg-1","role":"assistant","text":"I'll create a component.\n\n<ablo-code><ablo-write file_path=\"Button.tsx\">export const Button = () => null;</ablo-write></ablo-code>\n\nDone!"}
`

// Init creates a new .ablofiles/ directory with an example config and a
// sample replay transcript.
func Init(targetDir string) error {
	abloDir := filepath.Join(targetDir, ".ablofiles")
	if _, err := os.Stat(filepath.Join(abloDir, "config.yaml")); err == nil {
		return fmt.Errorf(".ablofiles/config.yaml already exists in %s", targetDir)
	}

	if err := os.MkdirAll(abloDir, 0755); err != nil {
		return fmt.Errorf("creating .ablofiles: %w", err)
	}

	configPath := filepath.Join(abloDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config.yaml: %w", err)
	}

	transcriptPath := filepath.Join(abloDir, "example-transcript.jsonl")
	if err := os.WriteFile(transcriptPath, []byte(transcriptTemplate), 0644); err != nil {
		return fmt.Errorf("writing example-transcript.jsonl: %w", err)
	}

	fmt.Printf("\n%s%s✓ Initialized .ablofiles/ directory%s\n\n", ux.Bold, ux.Green, ux.Reset)
	fmt.Printf("  Created:\n")
	fmt.Printf("    %s.ablofiles/config.yaml%s              — tag and storage configuration\n", ux.Cyan, ux.Reset)
	fmt.Printf("    %s.ablofiles/example-transcript.jsonl%s — sample streaming transcript\n\n", ux.Cyan, ux.Reset)
	fmt.Printf("  Next steps:\n")
	fmt.Printf("    1. Run %sablofiles replay .ablofiles/example-transcript.jsonl%s\n", ux.Cyan, ux.Reset)
	fmt.Printf("    2. Run %sablofiles docs markup%s for the directive syntax\n\n", ux.Cyan, ux.Reset)

	return nil
}
