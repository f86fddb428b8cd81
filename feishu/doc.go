// Package feishu is a schema-aware client for the Feishu (Lark) bitable
// service.
//
// # Architecture
//
// Client owns the tenant access token lifecycle and the outbound HTTP
// connection pool; every authenticated call refreshes the token lazily when
// less than the safety margin of lifetime remains. Table binds a Client to
// one (app token, table ID) pair and exposes the record access layer:
// cursor-driven search, error-tolerant bulk reads, and upsert-style writes.
//
// Before every write, Reconcile diffs the supplied field map against the
// remote schema: unknown fields are created with an inferred type, date
// values are normalized to epoch milliseconds, and attachment values are
// routed through the ingestion pipeline, which turns URLs, file paths and
// raw bytes into uploaded reference descriptors.
//
// # Error policy
//
// Read paths swallow errors at the boundary and return empty or partial
// results, logging the cause; treat an empty result as "not found or
// unavailable". Primary writes surface *APIError and *AuthError. Secondary
// failures during reconciliation drop the offending field, reported via the
// DroppedField list, and never abort the write. No call is retried
// automatically except the attachment upload's single fallback-destination
// attempt.
//
// # Usage
//
//	client, err := feishu.NewClient(cfg.Feishu, log)
//	table := feishu.NewTable(client, appToken, tableID)
//	records := table.GetAll(ctx, feishu.AndFilter(
//	    feishu.NewCondition("状态", feishu.OpIs, "进行中"),
//	))
package feishu
