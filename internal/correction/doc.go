// Package correction removes re-export double counting from bilateral trade
// flows.
//
// A country that imports goods and exports them onwards inflates reported
// trade beyond what was actually produced. The corrector bounds every
// country's total exports by its true exportable supply, defined as domestic
// production plus corrected imports. Reported exports above the bound are
// scaled down proportionally across all destinations, which shrinks the
// import totals of the partners and can expose new violations, so the
// procedure iterates to a fixed point. The iteration count is capped; hitting
// the cap is reported through the result's Converged flag rather than as an
// error.
//
// The correction is a pure function of the input tables: identical flows,
// production and parameters always produce identical corrected flows.
package correction
