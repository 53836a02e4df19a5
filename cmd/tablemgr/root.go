package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jxwalker/tablemgr/internal/config"
)

type globalFlags struct {
	configPath string
	logLevel   string
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.configPath, "config", "", "Path to YAML config file (or "+config.EnvConfigPath+"; default: ~/.config/tablemgr/config.yml)")
	fs.StringVar(&g.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides logging.level)")
}

func (g *globalFlags) path() string {
	if g.configPath != "" {
		return g.configPath
	}
	return config.DefaultPath()
}

// load reads the config, falling back to defaults when the file is missing.
func (g *globalFlags) load() (*config.Config, error) {
	c, err := config.LoadOrDefault(g.path())
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		c.Logging.Level = g.logLevel
	}
	return c, nil
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	tf := &tuiFlags{}

	root := &cobra.Command{
		Use:   "tablemgr [FILE.csv]",
		Short: "Browse, edit and export tabular data in the terminal",
		Long: `tablemgr opens a data table in the terminal. Search, sort and page
through rows, edit or delete them, add and reorder columns, and move data in
and out as CSV.

Without a file it starts from the last saved snapshot (when general.state_db
is set) or from sample rows.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, g, tf, args)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return []string{"csv"}, cobra.ShellCompDirectiveFilterFileExt
		},
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	g.register(root.PersistentFlags())
	tf.register(root.Flags())
	_ = root.RegisterFlagCompletionFunc("theme", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "light", "dark"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newPrintCmd(g))
	root.AddCommand(newConfigCmd(g))
	root.AddCommand(newVersionCmd())
	root.AddCommand(newCompletionCmd())
	return root
}
