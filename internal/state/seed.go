package state

import "github.com/jxwalker/tablemgr/internal/table"

// SeedRows are the sample rows shown before anything is imported.
func SeedRows() []table.Row {
	return []table.Row{
		table.NewRow("1").
			With("name", table.Text("Saba Ahmad")).
			With("email", table.Text("saba123@gmail.com")).
			With("age", table.Number(23)).
			With("role", table.Text("Frontend Developer")),
		table.NewRow("2").
			With("name", table.Text("Ravi Kumar")).
			With("email", table.Text("ravi123@gmail.com")).
			With("age", table.Number(25)).
			With("role", table.Text("Frontend Developer")),
	}
}
