// Package anvio runs the anvi'o workflow for one assembly and its read libraries.
//
// A run builds and annotates the contigs database of the assembly, then maps and profiles
// every read library in order. Several libraries are merged into one profile and a run without
// reads gets a blank profile. The result directory receives the database with the reformatted
// assembly and that single profile; it is then packaged and attached to a new report.
//
// Every run works in its own directory under the scratch directory, so runs never share files.
package anvio
