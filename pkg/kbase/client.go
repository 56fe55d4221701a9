package kbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/askiada/go-anvio/pkg/mapping"
)

const rpcVersion = "1.1"

// ErrEmptyResult is returned when a call succeeds without returning anything.
var ErrEmptyResult = errors.New("empty result")

// RPCError is an error returned by a service.
type RPCError struct {
	Method  string
	Name    string `json:"name"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"error"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s failed: %s (%d): %s", e.Method, e.Name, e.Code, e.Message)
}

type rpcRequest struct {
	Version string        `json:"version"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      string        `json:"id"`
}

type rpcResponse struct {
	Version string            `json:"version"`
	Result  []json.RawMessage `json:"result"`
	Error   *RPCError         `json:"error"`
}

// Client calls the services through the callback endpoint.
type Client struct {
	url   string
	token string
	http  *http.Client
}

// ClientOption configures a Client.
type ClientOption func(c *Client)

// WithToken sets the authorization token sent with every call.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.http = client
	}
}

// NewClient creates a client for the callback URL.
func NewClient(callbackURL string, opts ...ClientOption) *Client {
	c := &Client{
		url:  callbackURL,
		http: &http.Client{Timeout: 24 * time.Hour},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	body, err := json.Marshal(rpcRequest{
		Version: rpcVersion,
		Method:  method,
		Params:  []interface{}{params},
		ID:      uuid.NewString(),
	})
	if err != nil {
		return errors.Wrapf(err, "unable to encode %s request", method)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "unable to create %s request", method)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	log.Debug.Printf("calling %s", method)
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "unable to call %s", method)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "unable to read %s response", method)
	}

	var out rpcResponse
	err = json.Unmarshal(raw, &out)
	if err != nil {
		if resp.StatusCode != http.StatusOK {
			return errors.Errorf("%s failed with status %s", method, resp.Status)
		}
		return errors.Wrapf(err, "unable to decode %s response", method)
	}
	if out.Error != nil {
		out.Error.Method = method
		return out.Error
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("%s failed with status %s", method, resp.Status)
	}
	if len(out.Result) == 0 {
		return errors.Wrap(ErrEmptyResult, method)
	}

	err = json.Unmarshal(out.Result[0], result)
	if err != nil {
		return errors.Wrapf(err, "unable to decode %s result", method)
	}

	return nil
}

// GetAssemblyAsFasta implements AssemblyService.
func (c *Client) GetAssemblyAsFasta(ctx context.Context, ref string) (string, error) {
	var res struct {
		Path string `json:"path"`
	}
	err := c.call(ctx, "AssemblyUtil.get_assembly_as_fasta", map[string]string{"ref": ref}, &res)
	if err != nil {
		return "", err
	}

	return res.Path, nil
}

// UnpackFile implements FileService.
func (c *Client) UnpackFile(ctx context.Context, path string) (string, error) {
	var res struct {
		FilePath string `json:"file_path"`
	}
	err := c.call(ctx, "DataFileUtil.unpack_file", map[string]string{"file_path": path}, &res)
	if err != nil {
		return "", err
	}

	return res.FilePath, nil
}

type downloadedFiles struct {
	Fwd  string  `json:"fwd"`
	Rev  *string `json:"rev"`
	Type string  `json:"type"`
}

// DownloadReads implements ReadsService. Libraries keep the layout they are stored with.
func (c *Client) DownloadReads(ctx context.Context, refs []string) (map[string]ReadLibrary, error) {
	var res struct {
		Files map[string]struct {
			Files downloadedFiles `json:"files"`
		} `json:"files"`
	}
	params := map[string]interface{}{
		"read_libraries": refs,
		"interleaved":    nil,
	}
	err := c.call(ctx, "ReadsUtils.download_reads", params, &res)
	if err != nil {
		return nil, err
	}

	libs := make(map[string]ReadLibrary, len(refs))
	for _, ref := range refs {
		entry, ok := res.Files[ref]
		if !ok {
			return nil, errors.Errorf("reads service did not return library %s", ref)
		}
		layout, err := mapping.ParseLayout(entry.Files.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "library %s", ref)
		}
		lib := ReadLibrary{Ref: ref, Fwd: entry.Files.Fwd, Layout: layout}
		if entry.Files.Rev != nil {
			lib.Rev = *entry.Files.Rev
		}
		libs[ref] = lib
	}

	return libs, nil
}

// CreateExtendedReport implements ReportService.
func (c *Client) CreateExtendedReport(ctx context.Context, params ReportParams) (*ReportInfo, error) {
	res := &ReportInfo{}
	err := c.call(ctx, "KBaseReport.create_extended_report", params, res)
	if err != nil {
		return nil, err
	}

	return res, nil
}

var _ Services = (*Client)(nil)
