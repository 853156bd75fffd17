// Package research pushes per-simulation scalar summaries to an external
// record-keeping service so every data point stays traceable to its run.
//
// The sink is fire-and-forget with respect to the pipeline: a failed push
// is reported to the caller but never corrupts pipeline state, and batch
// operations record per-item failures instead of aborting.
package research
