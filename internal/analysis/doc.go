// Package analysis provides structural and time-series analysis of a
// network run.
//
//   - [Components]: connected components via gonum graph/topo
//   - [Degrees]: degree distribution summary
//   - [PowerSpectrum], [DominantPeriod]: oscillation in population series
//   - [LayoutDivergence]: sensitivity of the layout to a small displacement
//   - [NewPhasePortrait]: two series plotted against each other
//
// # Oscillation
//
// Populations under the life rules tend to breathe. The dominant period of
// the alive series, in samples, is
//
//	period := analysis.DominantPeriod(result.Population())
package analysis
