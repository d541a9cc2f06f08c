// Package ghdevops provides the GitHub REST client shared by the DevOps
// tool catalog exposed to AI assistants.
//
// A [Client] is bound to one set of [Credentials] and issues requests with
// a fixed retry ceiling (3 attempts), a fixed per-attempt timeout (30s),
// cooperative rate-limit backoff and structured errors.
//
// Basic usage:
//
//	creds, err := credentials.Resolve()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := ghdevops.New(creds)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	path, err := client.RepoPath("", "", "actions", "runs")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := client.Get(ctx, path, ghdevops.Params{"status": "failure"})
//	if err != nil {
//	    fmt.Println(ghdevops.FormatError(err, "list_workflow_runs"))
//	    return
//	}
//
//	var runs struct {
//	    TotalCount int `json:"total_count"`
//	}
//	if err := res.Decode(&runs); err != nil {
//	    log.Fatal(err)
//	}
//
// # Results
//
// Every call yields exactly one terminal outcome. A [Result] carries a JSON
// document ([KindJSON]), raw text from [Client.GetRaw] ([KindText]), nothing
// for 204 responses ([KindEmpty]), or the Location of a 302 response
// ([KindRedirect]). Redirects are never followed.
//
// # Errors
//
// Terminal HTTP failures are returned as [*APIError] and match the sentinel
// errors with errors.Is:
//
//	res, err := client.Get(ctx, path, nil)
//	if errors.Is(err, ghdevops.ErrNotFound) {
//	    // check owner, repo and IDs
//	}
//
// Transport failures that outlive every retry are returned as
// [*NetworkError], which unwraps to the underlying error. [Classify] and
// [FormatError] map any error onto a display category and message.
//
// # Concurrency
//
// A Client holds no mutable state after construction and is safe for
// concurrent use. [Gather] and [GatherSettled] fan several calls out and
// join them, reporting the first error or collecting every outcome. A
// failing call never cancels the others.
package ghdevops
