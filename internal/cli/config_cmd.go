package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/stackdeck/internal/config"
	"github.com/rileyhilliard/stackdeck/internal/errors"
)

var (
	configInitForce  bool
	configInitGlobal bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or inspect the stackdeck config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Long: `Write a config file containing every setting at its default value.

By default the file is ./` + config.ConfigFileName + `. Use --global for
~/` + config.GlobalConfigDir + `/` + config.GlobalConfigFile + `, or --config to pick a path.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configInitPath(cmd)
		if err != nil {
			return err
		}

		if err := config.Save(config.DefaultConfig(), path, configInitForce); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't write "+path,
				"Use --force to overwrite an existing file.")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after merging the config file, STACKDECK_* environment variables and flags.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		explicit, _ := cmd.Flags().GetString("config")
		source, err := config.Find(explicit)
		if err != nil {
			return err
		}
		if source == "" {
			source = "defaults"
		}

		data, err := config.Marshal(cfg)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't render config", "")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# source: %s\n", source)
		fmt.Fprint(out, string(data))
		return nil
	},
}

func configInitPath(cmd *cobra.Command) (string, error) {
	if explicit, _ := cmd.Flags().GetString("config"); explicit != "" {
		return explicit, nil
	}
	if !configInitGlobal {
		return config.ConfigFileName, nil
	}
	path := config.GlobalPath()
	if path == "" {
		return "", errors.New(errors.ErrConfig,
			"Can't find your home directory",
			"Use --config to choose where to write the file.")
	}
	return path, nil
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file")
	configInitCmd.Flags().BoolVar(&configInitGlobal, "global", false, "write the user-wide config")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
