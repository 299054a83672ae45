// Package source locates irrep tables and moves their text in and out of
// storage.
//
// Tables are addressed by URL through github.com/viant/afs, so a root may
// be a local directory or any scheme afs has a connector for. Plain paths
// are treated as local files. Default file names follow the table package:
// irreps-SG=<N>-<spin|scal>.dat for user tables and TabIrrepLittle_<N>.txt
// for legacy ones.
package source
