package main

import (
	"context"
	"fmt"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
	"github.com/urfave/cli/v3"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "output raw JSON"}
}

func ranksCommand() *cli.Command {
	return &cli.Command{
		Name:  "ranks",
		Usage: "Rank directory commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List ranks, highest level first",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.Rank
					if err := doRanksList(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printRanks(out)
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "Create a rank",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.IntFlag{Name: "level", Required: true},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.Rank
					if err := doRanksCreate(ctx, cfg, c.String("name"), int(c.Int("level")), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printRanks([]domain.Rank{out})
					return nil
				},
			},
		},
	}
}

func officersCommand() *cli.Command {
	return &cli.Command{
		Name:  "officers",
		Usage: "Personnel commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List officers",
				Flags: []cli.Flag{&cli.StringFlag{Name: "q"}, jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.Officer
					if err := doOfficersList(ctx, cfg, c.String("q"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printOfficers(out)
					return nil
				},
			},
			{
				Name:  "register",
				Usage: "Register an officer",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "badge", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.UintFlag{Name: "rank-id"},
					&cli.StringFlag{Name: "station"},
					&cli.StringFlag{Name: "department"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					in := map[string]any{
						"name":       c.String("name"),
						"badge":      c.String("badge"),
						"password":   c.String("password"),
						"rank_id":    optionalUint(c, "rank-id"),
						"station":    c.String("station"),
						"department": c.String("department"),
					}
					var out domain.Officer
					if err := doOfficersRegister(ctx, cfg, in, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printOfficers([]domain.Officer{out})
					return nil
				},
			},
			{
				Name:  "show",
				Usage: "Show an officer profile with history",
				Flags: []cli.Flag{&cli.UintFlag{Name: "id", Required: true}, jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.OfficerProfile
					if err := doOfficersProfile(ctx, cfg, uint(c.Uint("id")), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printProfile(out)
					return nil
				},
			},
			{
				Name:  "rank",
				Usage: "Change an officer's rank; omit --rank-id to clear it",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "id", Required: true},
					&cli.UintFlag{Name: "rank-id"},
					&cli.StringFlag{Name: "reason"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.Officer
					if err := doOfficersRank(ctx, cfg, uint(c.Uint("id")), optionalUint(c, "rank-id"), c.String("reason"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printOfficers([]domain.Officer{out})
					return nil
				},
			},
			{
				Name:  "discipline",
				Usage: "Add a disciplinary record",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "id", Required: true},
					&cli.StringFlag{Name: "category", Required: true},
					&cli.StringFlag{Name: "description"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.DisciplinaryRecord
					if err := doOfficersDiscipline(ctx, cfg, uint(c.Uint("id")), c.String("category"), c.String("description"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printDisciplinary([]domain.DisciplinaryRecord{out})
					return nil
				},
			},
		},
	}
}

func itemsCommand() *cli.Command {
	return &cli.Command{
		Name:  "items",
		Usage: "Custody ledger commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List seized items and assets",
				Flags: []cli.Flag{&cli.StringFlag{Name: "collection", Usage: "Asset or Evidence"}, jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.SeizedItem
					if err := doItemsList(ctx, cfg, c.String("collection"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printItems(out)
					return nil
				},
			},
			{
				Name:  "register",
				Usage: "Register an item with its entry movement",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "collection", Required: true},
					&cli.StringFlag{Name: "category", Required: true},
					&cli.StringFlag{Name: "model", Required: true},
					&cli.StringFlag{Name: "brand"},
					&cli.StringFlag{Name: "caliber"},
					&cli.StringFlag{Name: "serial"},
					&cli.UintFlag{Name: "report-id"},
					&cli.UintFlag{Name: "arrest-id"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					in := map[string]any{
						"collection": c.String("collection"),
						"category":   c.String("category"),
						"model":      c.String("model"),
						"brand":      c.String("brand"),
						"caliber":    c.String("caliber"),
						"serial":     c.String("serial"),
						"report_id":  optionalUint(c, "report-id"),
						"arrest_id":  optionalUint(c, "arrest-id"),
					}
					var out domain.SeizedItem
					if err := doItemsRegister(ctx, cfg, in, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printItems([]domain.SeizedItem{out})
					return nil
				},
			},
			{
				Name:  "move",
				Usage: "Record a custody movement",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "id", Required: true},
					&cli.StringFlag{Name: "type", Required: true, Usage: "Withdraw, Return or any free-form movement"},
					&cli.StringFlag{Name: "to", Usage: "destination selector; \"other\" uses --to-other"},
					&cli.StringFlag{Name: "to-other"},
					&cli.StringFlag{Name: "destination", Usage: "raw destination for non-withdraw movements"},
					&cli.StringFlag{Name: "note"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					in := map[string]any{
						"movement_type": c.String("type"),
						"selector":      c.String("to"),
						"free_text":     c.String("to-other"),
						"destination":   c.String("destination"),
						"note":          c.String("note"),
					}
					var out struct {
						Item     domain.SeizedItem     `json:"item"`
						Movement domain.MovementRecord `json:"movement"`
					}
					if err := doItemsMove(ctx, cfg, uint(c.Uint("id")), in, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printItems([]domain.SeizedItem{out.Item})
					return nil
				},
			},
			{
				Name:  "history",
				Usage: "Show the movement history of an item",
				Flags: []cli.Flag{&cli.UintFlag{Name: "id", Required: true}, jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.MovementRecord
					if err := doItemsHistory(ctx, cfg, uint(c.Uint("id")), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printMovements(out)
					return nil
				},
			},
		},
	}
}

func reportsCommand() *cli.Command {
	return &cli.Command{
		Name:  "reports",
		Usage: "Incident report commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List incident reports",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.IncidentReport
					if err := doReportsList(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printReports(out)
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "File an incident report",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "complainant"},
					&cli.StringFlag{Name: "victim"},
					&cli.StringFlag{Name: "nature"},
					&cli.StringFlag{Name: "description", Required: true},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					in := map[string]any{
						"complainant": c.String("complainant"),
						"victim":      c.String("victim"),
						"nature":      c.String("nature"),
						"description": c.String("description"),
					}
					var out domain.IncidentReport
					if err := doReportsCreate(ctx, cfg, in, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printReports([]domain.IncidentReport{out})
					return nil
				},
			},
			{
				Name:  "toggle",
				Usage: "Flip a report between Pending and Closed",
				Flags: []cli.Flag{&cli.UintFlag{Name: "id", Required: true}, jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.IncidentReport
					if err := doReportsToggle(ctx, cfg, uint(c.Uint("id")), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					fmt.Printf("report %s is now %s\n", out.Number(), out.Status)
					return nil
				},
			},
		},
	}
}

func auditCommand() *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Audit log commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List audit logs",
				Flags: []cli.Flag{&cli.IntFlag{Name: "limit", Value: 200}, jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.AuditRecord
					if err := doAuditList(ctx, cfg, int(c.Int("limit")), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printAuditRecords(out)
					return nil
				},
			},
		},
	}
}

func optionalUint(c *cli.Command, name string) *uint {
	if !c.IsSet(name) {
		return nil
	}
	v := uint(c.Uint(name))
	return &v
}
