package discovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/healthsignal/health-engine/pkg/apperrors"
	"github.com/healthsignal/health-engine/pkg/tabular"
)

// candidateTableNames are probed in order when a store cannot enumerate its
// tables. Grouped by how bases tend to be organized.
var candidateTableNames = []string{
	// Customer/client tables
	"Customers", "Customer", "Clients", "Client", "Contacts", "Contact",
	"Accounts", "Account", "Users", "User", "Members", "Member",
	"Leads", "Lead", "Prospects", "Prospect", "People", "Person",

	// Generic table names
	"Table 1", "Table1", "Table 2", "Table2", "Table 3", "Table3",
	"Main Table", "Main", "Sheet1", "Sheet 1", "Data", "Records",

	// Business data tables
	"Orders", "Order", "Purchases", "Purchase", "Transactions", "Transaction",
	"Products", "Product", "Services", "Service", "Inventory",
	"Sales", "Revenue", "Deals", "Deal", "Opportunities", "Opportunity",

	// Support/operations
	"Support", "Tickets", "Ticket", "Issues", "Issue", "Cases", "Case",
	"Tasks", "Task", "Projects", "Project", "Activities", "Activity",

	// Analytics/metrics
	"Usage", "Analytics", "Metrics", "Stats", "Reports", "Report",
	"Events", "Event", "Logs", "Log", "Sessions", "Session",
}

// probeCandidates expands the candidate list with singular/plural variants
// so bases that name tables either way are both covered, deduplicated in
// first-seen order.
func probeCandidates() []string {
	seen := make(map[string]bool, len(candidateTableNames)*2)
	out := make([]string, 0, len(candidateTableNames)*2)
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, name := range candidateTableNames {
		add(name)
		add(inflection.Singular(name))
		add(inflection.Plural(name))
	}
	return out
}

// DiscoverTables enumerates a store's tables, preferring metadata and
// falling back to candidate-name probing when the store cannot enumerate.
// Probing treats a one-row read succeeding as proof the table exists.
func DiscoverTables(ctx context.Context, store tabular.Store, logger *zap.Logger) ([]tabular.TableInfo, error) {
	tables, err := store.ListTables(ctx)
	if err == nil && len(tables) > 0 {
		logger.Debug("enumerated tables from metadata", zap.Int("count", len(tables)))
		return tables, nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrUnsupported) {
		return nil, fmt.Errorf("table enumeration failed: %w", err)
	}

	logger.Debug("metadata unavailable, probing candidate table names")
	var discovered []tabular.TableInfo
	for _, name := range probeCandidates() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if _, err := store.ReadRows(ctx, name, 1); err != nil {
			continue
		}
		discovered = append(discovered, tabular.TableInfo{Name: name})
	}

	if len(discovered) == 0 {
		// Last resort: numbered default tables
		for i := 1; i <= 5; i++ {
			name := fmt.Sprintf("Table %d", i)
			if _, err := store.ReadRows(ctx, name, 1); err != nil {
				continue
			}
			discovered = append(discovered, tabular.TableInfo{Name: name})
		}
	}

	logger.Debug("probe complete", zap.Int("count", len(discovered)))
	return discovered, nil
}
