// Copyright 2025 Weft Networks
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package switchfab

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// DiagnosticsWrite writes a human readable dump of the attached ports and
// the compiled route table to the writer.
func (s *Switch) DiagnosticsWrite(w io.Writer) {
	ports := s.Ports()
	routes := s.Routes()

	fmt.Fprintf(w, "PORTS (%d)\n", len(ports))
	portRows := make([][]string, 0, len(ports))
	for _, p := range ports {
		prefixes := make([]string, 0, len(p.Routes))
		for _, r := range p.Routes {
			prefixes = append(prefixes, r.String())
		}
		portRows = append(portRows, []string{
			strconv.FormatUint(uint64(p.Index), 10),
			string(p.Group),
			strings.Join(prefixes, ", "),
		})
	}
	writeTable(w, []string{"INDEX", "GROUP", "ROUTES"}, portRows)

	fmt.Fprintf(w, "\nROUTE TABLE (%d)\n", len(routes))
	routeRows := make([][]string, 0, len(routes))
	for _, e := range routes {
		routeRows = append(routeRows, []string{
			e.Prefix.String(),
			strconv.FormatUint(uint64(e.Port), 10),
		})
	}
	writeTable(w, []string{"PREFIX", "PORT"}, routeRows)
}

func writeTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.Render()
}
