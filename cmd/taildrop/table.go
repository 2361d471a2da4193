package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"taildrop/internal/devices"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// renderDeviceTable lists devices in cache order. With colorize the state
// column is green for online peers and red otherwise.
func renderDeviceTable(list []devices.Device, colorize bool) string {
	rows := make([][]string, 0, len(list))
	for i, dev := range list {
		state := "offline"
		if dev.Online {
			state = "online"
		}
		if colorize {
			color := text.Colors{text.FgRed}
			if dev.Online {
				color = text.Colors{text.FgGreen}
			}
			state = color.Sprint(state)
		}
		address := ""
		if len(dev.Addresses) > 0 {
			address = dev.Addresses[0]
		}
		rows = append(rows, []string{
			itoa(i + 1),
			dev.Name,
			state,
			dev.OS,
			address,
		})
	}
	return renderTable(
		[]string{"#", "Device", "State", "OS", "Address"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}
