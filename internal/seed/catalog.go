package seed

import (
	"context"
	"log/slog"

	"github.com/johnwards/caseseed/internal/domain"
	"github.com/johnwards/caseseed/internal/store"
)

// PracticeAreaCatalog is the full list of practice areas offered by the
// product.
var PracticeAreaCatalog = []string{
	// Civil
	"Administrative Law",
	"Bankruptcy Law",
	"Business Law",
	"Civil Rights Law",
	"Class Action Litigation",
	"Commercial Law",
	"Construction Law",
	"Consumer Protection Law",
	"Contract Law",
	"Corporate Law",
	"Employment Law",
	"Environmental Law",
	"Family Law",
	"Health Care Law",
	"Immigration Law",
	"Insurance Law",
	"Intellectual Property Law",
	"Labor Law",
	"Landlord-Tenant Law",
	"Personal Injury Law",
	"Product Liability Law",
	"Real Estate Law",
	"Tax Law",
	"Tort Law",
	"Workers' Compensation Law",

	// Criminal
	"Criminal Defense",
	"Criminal Prosecution",
	"DUI/DWI Law",
	"Juvenile Law",
	"White Collar Crime",

	// Specialized
	"Admiralty Law",
	"Aviation Law",
	"Banking Law",
	"Elder Law",
	"Entertainment Law",
	"Estate Planning",
	"International Law",
	"Military Law",
	"Nonprofit Law",
	"Patent Law",
	"Privacy Law",
	"Securities Law",
	"Sports Law",
	"Technology Law",
	"Trusts and Estates",
}

// CatalogStore is what RefreshPracticeAreas needs from the store.
type CatalogStore interface {
	store.RowStore
	Delete(ctx context.Context, table string, filter store.Filter) (int64, error)
}

// RefreshPracticeAreas replaces the practice areas with catalog. Rows not in
// the catalog are removed unless a case still references them; every catalog
// name is then ensured. Only an unreachable store stops the refresh.
func RefreshPracticeAreas(ctx context.Context, rows CatalogStore, catalog []string, logger *slog.Logger) (StageReport, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sr := StageReport{Stage: StagePracticeAreas}

	wanted := make(map[string]bool, len(catalog))
	for _, name := range catalog {
		wanted[name] = true
	}

	existing, err := rows.Select(ctx, domain.TablePracticeAreas, nil, "id", "name")
	if err != nil {
		return sr, err
	}
	logger.Info("refreshing practice areas", "existing", len(existing), "catalog", len(catalog))

	for _, row := range existing {
		name := row.String("name")
		if wanted[name] {
			continue
		}
		if _, err := rows.Delete(ctx, domain.TablePracticeAreas, store.Filter{"id": row.ID()}); err != nil {
			if KindOf(err).Fatal() {
				return sr, err
			}
			sr.Skipped++
			logger.Warn("kept practice area", "name", name, "kind", KindOf(err), "error", err)
			continue
		}
		sr.Removed++
		logger.Info("removed practice area", "name", name)
	}

	gw := store.NewGateway(rows)
	for _, name := range catalog {
		pa := domain.PracticeArea{Name: name, Description: practiceAreaDescription(name)}
		if err := pa.Validate(); err != nil {
			sr.Skipped++
			logger.Warn("skipped practice area", "name", name, "error", err)
			continue
		}
		res, err := gw.Ensure(ctx, pa)
		if err != nil {
			if KindOf(err).Fatal() {
				return sr, err
			}
			sr.Skipped++
			logger.Warn("skipped practice area", "name", name, "kind", KindOf(err), "error", err)
			continue
		}
		if res.Created {
			sr.Created++
			logger.Info("added practice area", "name", name)
		} else {
			sr.Existing++
		}
	}
	return sr, nil
}
