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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/goscene/InputParameters"
	"github.com/notargets/goscene/plotter"
	"github.com/notargets/goscene/scene"
)

type SceneRun struct {
	InputFile string
	JSON      bool
	Plot      bool
}

const exampleSceneFile = `
########################################
Title: "Test Scene"
Objects:
  - Type: Mesh
    File: plate.su2
    ShowEdges: true
    Children:
      - Type: Circle
        Radius: 0.5
        Translation: [0, 0, 1]
########################################
`

// SceneCmd represents the scene command
var SceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Build a scene from a YAML description, print it and optionally plot it",
	Long: `
Builds a scene of meshes and curves from a YAML description and prints the display settings
of every object, parents before children.

goscene scene -I scene.yaml [--json] [--plot]`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sr := &SceneRun{}
		if sr.InputFile, err = cmd.Flags().GetString("inputFile"); err != nil {
			return
		}
		sr.JSON, _ = cmd.Flags().GetBool("json")
		sr.Plot, _ = cmd.Flags().GetBool("plot")
		if len(sr.InputFile) == 0 {
			fmt.Printf("Example File:%s\n", exampleSceneFile)
			return fmt.Errorf("must supply a scene description file (-I, --inputFile)")
		}
		return RunScene(sr, plotConfig(), os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(SceneCmd)
	SceneCmd.Flags().StringP("inputFile", "I", "", "YAML file describing the scene objects")
	SceneCmd.Flags().Bool("json", false, "print the scene as JSON")
	SceneCmd.Flags().BoolP("plot", "p", false, "plot the scene, the window stays up until interrupted")
}

// plotConfig reads the plotter settings from the configuration.
func plotConfig() (cfg plotter.Config) {
	var err error
	cfg = plotter.DefaultConfig()
	cfg.Labels = viper.GetBool("plot.labels")
	if cfg.View, err = plotter.ParseView(viper.GetString("plot.view")); err != nil {
		slog.Warn("ignoring plot.view", "error", err)
	}
	if m := viper.GetFloat64("plot.margin"); m >= 0 {
		cfg.Margin = float32(m)
	}
	return
}

// ReadSceneParameters reads and validates a scene description.
func ReadSceneParameters(filename string) (sp *InputParameters.SceneParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(filename); err != nil {
		return nil, fmt.Errorf("unable to read file %s: %w", filename, err)
	}
	sp = &InputParameters.SceneParameters{}
	if err = sp.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if err = sp.Validate(); err != nil {
		return nil, err
	}
	return
}

/*
BuildScene reads the scene description and builds its scene. The plotter is installed whenever the
scene is drawn with it, either because plot is requested or because the description names it.
*/
func BuildScene(filename string, plot bool, cfg plotter.Config) (sc *scene.Scene, p *plotter.Plotter, err error) {
	var sp *InputParameters.SceneParameters
	if sp, err = ReadSceneParameters(filename); err != nil {
		return
	}
	context := sp.Context
	if context == "" {
		context = viper.GetString("scene.context")
	}
	if plot || context == plotter.ContextName {
		p = plotter.New(cfg)
		p.Install()
		context = plotter.ContextName
	}
	if c := viper.GetString("scene.color"); c != "" {
		defaultColor(sp.Objects, c)
	}
	title := sp.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	slog.Debug("building scene", "title", title, "context", context, "objects", len(sp.Objects))
	sc = scene.NewScene(title, scene.WithContext(context))
	if err = sp.Build(sc, filepath.Dir(filename)); err != nil {
		return nil, nil, err
	}
	return
}

func defaultColor(objects []InputParameters.ObjectParameters, c string) {
	for i := range objects {
		if objects[i].Color == nil {
			objects[i].Color = c
		}
		defaultColor(objects[i].Children, c)
	}
}

func RunScene(sr *SceneRun, cfg plotter.Config, w io.Writer) (err error) {
	var (
		sc *scene.Scene
		p  *plotter.Plotter
	)
	if sc, p, err = BuildScene(sr.InputFile, sr.Plot, cfg); err != nil {
		return
	}
	PrintScene(w, sc)
	if sr.JSON {
		var b []byte
		if b, err = json.MarshalIndent(sc, "", "  "); err != nil {
			return
		}
		fmt.Fprintln(w, string(b))
	}
	if !sr.Plot {
		return
	}
	var guids []string
	if guids, err = sc.Draw(); err != nil {
		return
	}
	slog.Debug("drawn", "artists", len(guids))
	if _, err = p.Show(); err != nil {
		return
	}
	fmt.Fprintln(w, "Plotting, interrupt to exit")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return
}

// PrintScene prints the settings of every object, children indented below their parents.
func PrintScene(w io.Writer, sc *scene.Scene) {
	fmt.Fprintf(w, "\"%s\"\t\t= Scene [%s]\n", sc.Name(), sc.Context())
	for _, obj := range sc.Children() {
		printObject(w, obj, 1)
	}
}

func printObject(w io.Writer, obj scene.Object, level int) {
	var (
		indent   = strings.Repeat("    ", level)
		settings = obj.Settings()
		keys     = make([]string, 0, len(settings))
	)
	fmt.Fprintf(w, "%s%s (%T)\n", indent, obj.Base().Name(), obj.Base().Item())
	for k := range settings {
		if k != "name" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s  %s = %v\n", indent, k, settings[k])
	}
	for _, child := range obj.Base().Children() {
		printObject(w, child, level+1)
	}
}
