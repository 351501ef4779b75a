package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
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

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func uintToString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func formatMaybeUint(v *uint) string {
	if v == nil {
		return "-"
	}
	return uintToString(*v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func printRanks(items []domain.Rank) {
	rows := make([][]string, 0, len(items))
	for _, r := range items {
		rows = append(rows, []string{uintToString(r.ID), r.Name, strconv.Itoa(r.Level)})
	}
	printTable([]string{"ID", "NAME", "LEVEL"}, rows)
}

func printOfficers(items []domain.Officer) {
	rows := make([][]string, 0, len(items))
	for _, o := range items {
		rows = append(rows, []string{
			uintToString(o.ID),
			o.Badge,
			o.Name,
			o.RankName(),
			strconv.Itoa(o.EffectiveLevel()),
			o.Station,
		})
	}
	printTable([]string{"ID", "BADGE", "NAME", "RANK", "LEVEL", "STATION"}, rows)
}

func printProfile(p domain.OfficerProfile) {
	o := p.Officer
	printKV([][2]string{
		{"id", uintToString(o.ID)},
		{"name", o.Name},
		{"badge", o.Badge},
		{"rank", o.RankName()},
		{"station", o.Station},
		{"department", o.Department},
	})
	if len(p.Promotions) > 0 {
		fmt.Println()
		rows := make([][]string, 0, len(p.Promotions))
		for _, pr := range p.Promotions {
			rows = append(rows, []string{
				formatTime(pr.CreatedAt),
				fmt.Sprintf("%s (%d)", pr.PreviousRankName, pr.PreviousRankLevel),
				fmt.Sprintf("%s (%d)", pr.NewRankName, pr.NewRankLevel),
				pr.Reason,
			})
		}
		printTable([]string{"WHEN", "FROM", "TO", "REASON"}, rows)
	}
	if len(p.Disciplinary) > 0 {
		fmt.Println()
		printDisciplinary(p.Disciplinary)
	}
}

func printDisciplinary(items []domain.DisciplinaryRecord) {
	rows := make([][]string, 0, len(items))
	for _, d := range items {
		rows = append(rows, []string{uintToString(d.ID), formatTime(d.CreatedAt), d.Category, formatMaybeUint(d.AuthorID), d.Description})
	}
	printTable([]string{"ID", "WHEN", "CATEGORY", "AUTHOR_ID", "DESCRIPTION"}, rows)
}

func printItems(items []domain.SeizedItem) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			uintToString(item.ID),
			string(item.Collection),
			item.Serial,
			item.Category,
			item.Model,
			string(item.Status),
			item.Location,
		})
	}
	printTable([]string{"ID", "COLLECTION", "SERIAL", "CATEGORY", "MODEL", "STATUS", "LOCATION"}, rows)
}

func printMovements(items []domain.MovementRecord) {
	rows := make([][]string, 0, len(items))
	for _, m := range items {
		rows = append(rows, []string{
			formatTime(m.CreatedAt),
			string(m.MovementType),
			m.Destination,
			formatMaybeUint(m.ResponsibleID),
			m.Note,
		})
	}
	printTable([]string{"WHEN", "TYPE", "DESTINATION", "RESPONSIBLE_ID", "NOTE"}, rows)
}

func printReports(items []domain.IncidentReport) {
	rows := make([][]string, 0, len(items))
	for _, r := range items {
		rows = append(rows, []string{r.Number(), r.Status, r.Complainant, r.ResponsibleOfficer, formatTime(r.CreatedAt)})
	}
	printTable([]string{"NUMBER", "STATUS", "COMPLAINANT", "RESPONSIBLE", "CREATED_AT"}, rows)
}

func printAuditRecords(items []domain.AuditRecord) {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		actor := a.ActorName
		if actor == "" {
			actor = formatMaybeUint(a.ActorID)
		}
		rows = append(rows, []string{formatTime(a.CreatedAt), actor, a.Action, a.TargetType, formatMaybeUint(a.TargetID), a.Metadata})
	}
	printTable([]string{"WHEN", "ACTOR", "ACTION", "TARGET", "TARGET_ID", "METADATA"}, rows)
}
