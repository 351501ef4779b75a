package main

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func doLogin(ctx context.Context, cfg cliConfig, badge, password, tokenName string, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cliConfig{Socket: cfg.Socket}).call(ctx, "auth.login", map[string]any{
			"badge":      badge,
			"password":   password,
			"token_name": tokenName,
		}, out)
	}
	client := newAPIClient(cfg.Server, "")
	return client.request(ctx, http.MethodPost, "/api/auth/login", map[string]any{
		"badge":      badge,
		"password":   password,
		"mode":       "token",
		"token_name": tokenName,
	}, out)
}

func doWhoAmI(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg).call(ctx, "auth.whoami", nil, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).request(ctx, http.MethodGet, "/api/auth/whoami", nil, out)
}

func doLogout(ctx context.Context, cfg cliConfig) error {
	if cfg.Transport == "uds" {
		return nil
	}
	return newAPIClient(cfg.Server, cfg.Token).request(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func doRanksList(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg).call(ctx, "ranks.list", nil, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).requestList(ctx, "/api/ranks", "ranks", out)
}

func doRanksCreate(ctx context.Context, cfg cliConfig, name string, level int, out any) error {
	in := map[string]any{"name": name, "level": level}
	if cfg.Transport == "uds" {
		return newRPCClient(cfg).call(ctx, "ranks.create", in, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).request(ctx, http.MethodPost, "/api/ranks", in, out)
}

func doOfficersList(ctx context.Context, cfg cliConfig, q string, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg).call(ctx, "officers.list", map[string]any{"q": q, "limit": 200}, out)
	}
	path := "/api/officers?" + url.Values{"q": {q}, "limit": {"200"}}.Encode()
	return newAPIClient(cfg.Server, cfg.Token).requestList(ctx, path, "officers", out)
}

func doOfficersRegister(ctx context.Context, cfg cliConfig, in map[string]any, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg).call(ctx, "officers.register", in, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).request(ctx, http.MethodPost, "/api/officers", in, out)
}

func doOfficersProfile(ctx context.Context, cfg cliConfig, officerID uint, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg).call(ctx, "officers.profile", map[string]any{"officer_id": officerID}, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).request(ctx, http.MethodGet, "/api/officers/"+uintToString(officerID), nil, out)
}

func doOfficersRank(ctx context.Context, cfg cliConfig, officerID uint, rankID *uint, reason string, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg).call(ctx, "officers.rank", map[string]any{"officer_id": officerID, "rank_id": rankID, "reason": reason}, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).request(ctx, http.MethodPost, "/api/officers/"+uintToString(officerID)+"/rank",
		map[string]any{"rank_id": rankID, "reason": reason}, out)
}

func doOfficersDiscipline(ctx context.Context, cfg cliConfig, officerID uint, category, description string, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg).call(ctx, "officers.discipline", map[string]any{"officer_id": officerID, "category": category, "description": description}, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).request(ctx, http.MethodPost, "/api/officers/"+uintToString(officerID)+"/discipline",
		map[string]any{"category": category, "description": description}, out)
}

func doItemsList(ctx context.Context, cfg cliConfig, collection string, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg).call(ctx, "items.list", map[string]any{"collection": collection}, out)
	}
	path := "/api/items"
	if collection != "" {
		path += "?" + url.Values{"collection": {collection}}.Encode()
	}
	return newAPIClient(cfg.Server, cfg.Token).requestList(ctx, path, "items", out)
}

func doItemsRegister(ctx context.Context, cfg cliConfig, in map[string]any, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg).call(ctx, "items.register", in, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).request(ctx, http.MethodPost, "/api/items", in, out)
}

func doItemsMove(ctx context.Context, cfg cliConfig, itemID uint, in map[string]any, out any) error {
	if cfg.Transport == "uds" {
		in["item_id"] = itemID
		return newRPCClient(cfg).call(ctx, "items.move", in, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).request(ctx, http.MethodPost, "/api/items/"+uintToString(itemID)+"/movements", in, out)
}

func doItemsHistory(ctx context.Context, cfg cliConfig, itemID uint, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg).call(ctx, "items.history", map[string]any{"item_id": itemID}, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).requestList(ctx, "/api/items/"+uintToString(itemID)+"/movements", "movements", out)
}

func doReportsList(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg).call(ctx, "reports.list", map[string]any{"limit": 200}, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).requestList(ctx, "/api/reports?limit=200", "reports", out)
}

func doReportsCreate(ctx context.Context, cfg cliConfig, in map[string]any, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg).call(ctx, "reports.create", in, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).request(ctx, http.MethodPost, "/api/reports", in, out)
}

func doReportsToggle(ctx context.Context, cfg cliConfig, reportID uint, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg).call(ctx, "reports.toggle", map[string]any{"report_id": reportID}, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).request(ctx, http.MethodPost, "/api/reports/"+uintToString(reportID)+"/toggle", nil, out)
}

func doAuditList(ctx context.Context, cfg cliConfig, limit int, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg).call(ctx, "audit.list", map[string]any{"limit": limit}, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).requestList(ctx, "/api/audit/logs?limit="+strconv.Itoa(limit), "logs", out)
}
