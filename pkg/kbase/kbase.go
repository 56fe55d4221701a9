// Package kbase talks to the services the workflow depends on: the assembly service, the file
// service, the reads service and the report service.
//
// Client reaches them through the JSON-RPC callback endpoint of the execution environment.
// Local serves the same calls from the filesystem so a run can happen offline.
package kbase

import (
	"context"

	"github.com/askiada/go-anvio/pkg/mapping"
)

// AssemblyService exports assemblies as FASTA files.
type AssemblyService interface {
	// GetAssemblyAsFasta returns the local path of the FASTA file of the assembly.
	GetAssemblyAsFasta(ctx context.Context, ref string) (string, error)
}

// FileService unpacks compressed files.
type FileService interface {
	// UnpackFile returns the path of the uncompressed file, path itself when it is not compressed.
	UnpackFile(ctx context.Context, path string) (string, error)
}

// ReadsService downloads read libraries.
type ReadsService interface {
	// DownloadReads returns the local files of every library, keyed by ref.
	DownloadReads(ctx context.Context, refs []string) (map[string]ReadLibrary, error)
}

// ReportService registers reports.
type ReportService interface {
	CreateExtendedReport(ctx context.Context, params ReportParams) (*ReportInfo, error)
}

// ReadLibrary holds the local files of a read library. Rev is only set for paired layouts.
type ReadLibrary struct {
	Ref    string
	Fwd    string
	Rev    string
	Layout mapping.Layout
}

// Input returns the mapping input of the library.
func (r ReadLibrary) Input() mapping.Input {
	return mapping.Input{Forward: r.Fwd, Reverse: r.Rev, Layout: r.Layout}
}

// LinkFile is a file attached to a report.
type LinkFile struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// ReportParams describes the report to create.
type ReportParams struct {
	Message             string     `json:"message"`
	WorkspaceName       string     `json:"workspace_name"`
	FileLinks           []LinkFile `json:"file_links"`
	HTMLLinks           []LinkFile `json:"html_links"`
	DirectHTMLLinkIndex int        `json:"direct_html_link_index"`
	HTMLWindowHeight    int        `json:"html_window_height"`
	ReportObjectName    string     `json:"report_object_name"`
}

// ReportInfo identifies a created report.
type ReportInfo struct {
	Name string `json:"name"`
	Ref  string `json:"ref"`
}

// Services groups every collaborator of a run.
type Services interface {
	AssemblyService
	FileService
	ReadsService
	ReportService
}
