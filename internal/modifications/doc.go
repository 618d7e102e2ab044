// Package modifications decides whether a Git working tree differs from its
// last recorded state.
//
// Three strategies are available: IndexDiff compares the index with the working
// tree, StatusScan walks per-file status, and TreeDiff compares the checked-out
// commit's tree with the working tree. All of them apply the same DiffPolicy so
// their answers are comparable.
package modifications
