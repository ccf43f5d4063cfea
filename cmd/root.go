/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// Stops a running profile, set when --profile is given
	stopProfile func()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "goscene",
	Short: "Scene graph tools for meshes and curves",
	Long: `
Builds scenes of meshes and curves from YAML descriptions, prints their display settings,
exports them as JSON and plots them.

goscene scene -I scene.yaml --plot
goscene mesh -F grid.su2 --translate 1,0,0`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLogging(verbose)
		kind, _ := cmd.Flags().GetString("profile")
		stopProfile, err = startProfile(kind)
		return
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if stopProfile != nil {
			stopProfile()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.goscene.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print diagnostics")
	rootCmd.PersistentFlags().String("profile", "", "profile the run: cpu or mem")
	setConfigDefaults()
}

func setConfigDefaults() {
	viper.SetDefault("plot.labels", false)
	viper.SetDefault("plot.view", "XY")
	viper.SetDefault("plot.margin", 0.1)
	viper.SetDefault("scene.context", "")
	viper.SetDefault("scene.color", "")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		// Search config in home directory with name ".goscene" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".goscene")
	}
	viper.SetEnvPrefix("GOSCENE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "file", viper.ConfigFileUsed())
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func startProfile(kind string) (stop func(), err error) {
	var mode func(*profile.Profile)
	switch strings.ToLower(kind) {
	case "":
		return
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	default:
		return nil, fmt.Errorf("unknown profile [%s], use cpu or mem", kind)
	}
	p := profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook)
	return p.Stop, nil
}
