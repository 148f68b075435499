package tourney

import "math"

// CET is the scale constant converting normalized-Elo units to the
// pair-score domain: 800/ln(10). It is shared by the SPRT log-likelihood
// ratio (pkg/sprt) and the normalized-Elo diagnostic (pkg/stats), both of
// which standardize a pair-score mean onto the same Elo-like scale.
const CET = 800 / math.Ln10

// PentaScoreValues are the five pair-score values, indexed in
// [LL, DL, DD+WL, WD, WW] order: a sibling pair scores 0, 0.25, 0.5, 0.75 or
// 1.0 of a full point. Penta keeps DD and WL as separate counters (for the
// opening-balance diagnostic) but they share the same 0.5 score value and
// are merged here.
var PentaScoreValues = [5]float64{0, 0.25, 0.5, 0.75, 1.0}

// MeanRef is the reference mean (a perfectly even match) used by the SPRT
// log-likelihood ratio.
const MeanRef = 0.5
