package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/onichandame/porter/internal/domain"
	"github.com/onichandame/porter/internal/ui"
)

func printJSON(v any) error {
	b, err := jsonMarshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatMaybeTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}

func printServices(items []domain.Service) {
	if len(items) == 0 {
		fmt.Println(ui.Subtle("no services"))
		return
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			item.Host,
			strconv.Itoa(item.Port),
			formatTime(item.CreatedAt),
			formatMaybeTime(item.UpdatedAt),
			formatMaybeTime(item.DeletedAt),
		})
	}
	fmt.Println(ui.Table([]string{"ID", "HOST", "PORT", "CREATED_AT", "UPDATED_AT", "DELETED_AT"}, rows))
}

func printGates(items []domain.Gate) {
	if len(items) == 0 {
		fmt.Println(ui.Subtle("no gates"))
		return
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			strconv.FormatUint(uint64(item.ServiceID), 10),
			item.Host,
			strconv.Itoa(item.Port),
			formatTime(item.CreatedAt),
			formatMaybeTime(item.UpdatedAt),
			formatMaybeTime(item.DeletedAt),
		})
	}
	fmt.Println(ui.Table([]string{"ID", "SERVICE_ID", "HOST", "PORT", "CREATED_AT", "UPDATED_AT", "DELETED_AT"}, rows))
}

func printService(item domain.Service) {
	printKV([][2]string{
		{"id", strconv.FormatUint(uint64(item.ID), 10)},
		{"host", item.Host},
		{"port", strconv.Itoa(item.Port)},
		{"created_at", formatTime(item.CreatedAt)},
		{"updated_at", formatMaybeTime(item.UpdatedAt)},
		{"deleted_at", formatMaybeTime(item.DeletedAt)},
	})
}

func printGate(item domain.Gate) {
	printKV([][2]string{
		{"id", strconv.FormatUint(uint64(item.ID), 10)},
		{"service_id", strconv.FormatUint(uint64(item.ServiceID), 10)},
		{"host", item.Host},
		{"port", strconv.Itoa(item.Port)},
		{"created_at", formatTime(item.CreatedAt)},
		{"updated_at", formatMaybeTime(item.UpdatedAt)},
		{"deleted_at", formatMaybeTime(item.DeletedAt)},
	})
}

func printDeleted(kind string, id uint) {
	fmt.Println(ui.Successf("%s %d deleted", kind, id))
}
