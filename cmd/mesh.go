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
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goscene/datastructures"
	"github.com/notargets/goscene/geometry"
	"github.com/notargets/goscene/readfiles"
	"github.com/notargets/goscene/scene"
)

type MeshRun struct {
	MeshFile  string
	Translate r3.Vec
}

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Print statistics and placed vertex coordinates of a mesh file",
	Long: `
Reads a mesh in SU2 (.su2), Gambit neutral (.neu) or YAML/JSON data form and prints its
statistics and vertex coordinates, optionally translated.

goscene mesh -F grid.su2 --translate 1,0,0`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		mr := &MeshRun{}
		if mr.MeshFile, err = cmd.Flags().GetString("meshFile"); err != nil {
			return
		}
		if len(mr.MeshFile) == 0 {
			return fmt.Errorf("must supply a mesh file (-F, --meshFile)")
		}
		tr, _ := cmd.Flags().GetString("translate")
		if mr.Translate, err = ParseVec(tr); err != nil {
			return
		}
		return RunMesh(mr, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	MeshCmd.Flags().StringP("meshFile", "F", "", "mesh file to read, .su2, .neu, .yaml or .json")
	MeshCmd.Flags().StringP("translate", "t", "", "translation applied to the vertices, as x,y,z")
}

// ParseVec parses "x,y,z", the empty string is the zero vector.
func ParseVec(s string) (v r3.Vec, err error) {
	if strings.TrimSpace(s) == "" {
		return
	}
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return v, fmt.Errorf("need 3 comma separated values, have [%s]", s)
	}
	var x [3]float64
	for i, f := range fields {
		if x[i], err = strconv.ParseFloat(strings.TrimSpace(f), 64); err != nil {
			return v, fmt.Errorf("unable to parse [%s]: %w", s, err)
		}
	}
	return geometry.ArrayToVec(x), nil
}

func RunMesh(mr *MeshRun, w io.Writer) (err error) {
	var (
		m  *datastructures.Mesh
		mo *scene.MeshObject
	)
	if m, err = readfiles.ReadMeshFile(mr.MeshFile); err != nil {
		return
	}
	T := geometry.Translation(mr.Translate)
	if mo, err = scene.NewMeshObject(m, scene.NewConfig(scene.WithTransformation(T))); err != nil {
		return
	}
	PrintMesh(w, mo)
	return
}

func PrintMesh(w io.Writer, mo *scene.MeshObject) {
	m := mo.Mesh()
	fmt.Fprintf(w, "\"%s\"\t\t= Mesh\n", mo.Name())
	fmt.Fprintf(w, "[%d]\t\t\t= Vertices\n", m.NumberOfVertices())
	fmt.Fprintf(w, "[%d]\t\t\t= Faces\n", m.NumberOfFaces())
	fmt.Fprintf(w, "[%d]\t\t\t= Edges\n", m.NumberOfEdges())
	fmt.Fprintf(w, "[%d]\t\t\t= Boundary Edges\n", len(m.BoundaryEdges()))
	for _, name := range m.EdgeGroupNames() {
		fmt.Fprintf(w, "Edge Group[%s] = %d edges\n", name, len(m.EdgeGroup(name)))
	}
	for _, name := range m.FaceGroupNames() {
		fmt.Fprintf(w, "Face Group[%s] = %d faces\n", name, len(m.FaceGroup(name)))
	}
	xyz := mo.VertexXYZ()
	for _, key := range m.Vertices() {
		p := xyz[key]
		fmt.Fprintf(w, "%6d %12.5f %12.5f %12.5f\n", key, p.X, p.Y, p.Z)
	}
}
