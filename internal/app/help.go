package app

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// -------------------------
// Help (agent-friendly)
// -------------------------

type helpFlag struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Default     string `json:"default"`
	Description string `json:"description"`
}

type helpCommand struct {
	Name        string     `json:"name"`
	Usage       string     `json:"usage"`
	Description string     `json:"description"`
	Flags       []helpFlag `json:"flags,omitempty"`
}

type helpFilter struct {
	Key     string   `json:"key"`
	Options []string `json:"options"`
}

type helpEntity struct {
	Name    string       `json:"name"`
	Aliases []string     `json:"aliases,omitempty"`
	Sort    []string     `json:"sort"`
	Filters []helpFilter `json:"filters,omitempty"`
}

type helpDoc struct {
	Name        string            `json:"name"`
	OneLiner    string            `json:"one_liner"`
	Commands    []helpCommand     `json:"commands"`
	GlobalFlags []helpFlag        `json:"global_flags"`
	Entities    []helpEntity      `json:"entities"`
	IOContract  map[string]string `json:"io_contract"`
	ExitCodes   map[string]string `json:"exit_codes"`
	Env         map[string]string `json:"env"`
	Config      map[string]string `json:"config"`
	Notes       []string          `json:"notes"`
}

// newHelpCmd replaces cobra's help command. Without arguments it prints the
// whole command surface; `help <command>` falls back to the usual help.
func newHelpCmd(root *cobra.Command) *cobra.Command {
	var format string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "help [command]",
		Short: "Show extended help (agent-friendly)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				target, _, err := root.Find(args)
				if err != nil || target == nil {
					return fmt.Errorf("unknown help topic %q", strings.Join(args, " "))
				}
				return target.Help()
			}
			if jsonOut {
				format = "json"
			}
			format = strings.TrimSpace(strings.ToLower(format))

			doc := buildHelpDoc(root)
			switch format {
			case "json":
				return writeJSON(cmd.OutOrStdout(), doc)
			case "", "text":
				fmt.Fprint(cmd.OutOrStdout(), renderHelpText(doc))
				return nil
			default:
				return fmt.Errorf("invalid --format %q (want text or json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}

func buildHelpDoc(root *cobra.Command) helpDoc {
	var commands []helpCommand
	for _, sub := range root.Commands() {
		if sub.Hidden || sub.Name() == "completion" {
			continue
		}
		commands = append(commands, helpCommand{
			Name:        sub.Name(),
			Usage:       sub.UseLine(),
			Description: sub.Short,
			Flags:       flagsOf(sub.LocalNonPersistentFlags()),
		})
	}

	var entities []helpEntity
	for _, b := range bindings() {
		e := helpEntity{Name: b.Name(), Aliases: b.Aliases(), Sort: b.SortColumns()}
		for _, f := range b.Filters() {
			e.Filters = append(e.Filters, helpFilter{Key: f.Key, Options: f.Options})
		}
		entities = append(entities, e)
	}

	cfgPath, err := configFilePath()
	if err != nil {
		cfgPath = "(unavailable: " + err.Error() + ")"
	}

	return helpDoc{
		Name:        appName,
		OneLiner:    root.Short,
		Commands:    commands,
		GlobalFlags: flagsOf(root.PersistentFlags()),
		Entities:    entities,
		IOContract: map[string]string{
			"stdout": "Primary data output (table/TUI/JSON).",
			"stderr": "Diagnostics, logs and errors.",
		},
		ExitCodes: map[string]string{
			"0": "Success",
			"1": "Command failed",
			"2": "Invalid configuration (config file or environment)",
		},
		Env:    envHelp(),
		Config: map[string]string{"path": cfgPath, "dotenv": strings.Join(dotEnvFiles, ", ")},
		Notes: []string{
			"Filters take key=value and accept comma separated values; `all` clears a filter.",
			"Sort takes a column id with an optional :desc suffix.",
			"TUI keys: / search, f filter, s sort, space select, n new, e edit, x delete, ? help.",
		},
	}
}

func flagsOf(fs *pflag.FlagSet) []helpFlag {
	var out []helpFlag
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		out = append(out, helpFlag{
			Name:        "--" + f.Name,
			Type:        f.Value.Type(),
			Default:     f.DefValue,
			Description: f.Usage,
		})
	})
	return out
}

// envHelp lists the variables read from the environment, derived from the
// env tags so the two cannot drift.
func envHelp() map[string]string {
	out := map[string]string{
		envPrefix + "HOME": "Override the app directory (config file and default data)",
	}
	rt := reflect.TypeFor[envConfig]()
	for i := range rt.NumField() {
		f := rt.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("env"), ",")
		if name == "" {
			continue
		}
		out[envPrefix+name] = "Overrides " + strings.ToLower(f.Name)
	}
	return out
}

func renderHelpText(doc helpDoc) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s: %s\n\n", doc.Name, doc.OneLiner))

	b.WriteString("COMMANDS\n")
	for _, c := range doc.Commands {
		b.WriteString(fmt.Sprintf("  %-8s %s\n", c.Name, c.Description))
		b.WriteString(fmt.Sprintf("  %-8s %s\n", "", c.Usage))
	}
	b.WriteString("\nGLOBAL FLAGS\n")
	for _, f := range doc.GlobalFlags {
		b.WriteString(fmt.Sprintf("  %-12s %-7s %-8s %s\n", f.Name, f.Type, f.Default, f.Description))
	}
	b.WriteString("\nENTITIES\n")
	for _, e := range doc.Entities {
		b.WriteString(fmt.Sprintf("  %s", e.Name))
		if len(e.Aliases) > 0 {
			b.WriteString(" (" + strings.Join(e.Aliases, ", ") + ")")
		}
		b.WriteString("\n    sort: " + strings.Join(e.Sort, ", ") + "\n")
		for _, f := range e.Filters {
			b.WriteString(fmt.Sprintf("    filter %s: %s\n", f.Key, strings.Join(f.Options, "|")))
		}
	}
	writeSection(&b, "I/O CONTRACT", doc.IOContract)
	writeSection(&b, "EXIT CODES", doc.ExitCodes)
	writeSection(&b, "ENV", doc.Env)
	writeSection(&b, "CONFIG", doc.Config)
	if len(doc.Notes) > 0 {
		b.WriteString("\nNOTES\n")
		for _, n := range doc.Notes {
			b.WriteString("  - " + n + "\n")
		}
	}
	return b.String()
}

func writeSection(b *strings.Builder, title string, m map[string]string) {
	b.WriteString("\n" + title + "\n")
	for _, k := range slices.Sorted(maps.Keys(m)) {
		b.WriteString(fmt.Sprintf("  %s: %s\n", k, m[k]))
	}
}
