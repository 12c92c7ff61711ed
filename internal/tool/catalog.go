package tool

import "fmt"

// Acknowledgement template returned by every dispatch. The phrasing is part
// of the external contract; downstream workers key off the embedded task ID.
const ackTemplate = "Task created and is under processing state with task id: %s, " +
	"results will be delivered in a while, please wait!"

// MiscellaneousTaskName is the catch-all tool used whenever no specialized
// tool matches the user's request.
const MiscellaneousTaskName = "miscellaneous_task"

// NewCatalog builds the fixed marketing-task catalog, wiring every tool's
// dispatch to the shared ID generator.
func NewCatalog(ids *IDGenerator) (*Registry, error) {
	dispatch := func(map[string]any) (string, string, error) {
		id := ids.Next()
		return fmt.Sprintf(ackTemplate, id), id, nil
	}

	return NewRegistry(
		Tool{
			Name:        "instagram_marketing",
			Description: "Generate a short form video for Instagram as a reel",
			Parameters: Schema{
				Properties: map[string]Property{
					"instagram_page_url":      {Type: "string", Description: "The URL of the Instagram page"},
					"company_website_url":     {Type: "string", Description: "The URL of the company website"},
					"content_preference":      {Type: "string", Description: "The content preference of the company, what should the reel convey"},
					"target_audience_profile": {Type: "string", Description: "The target audience profile for the reel"},
				},
				Required: []string{"instagram_page_url", "company_website_url", "content_preference", "target_audience_profile"},
			},
			Dispatch: dispatch,
		},
		Tool{
			Name:        "facebook_content_creator",
			Description: "Generate a Facebook ad",
			Parameters: Schema{
				Properties: map[string]Property{
					"facebook_page_url":       {Type: "string", Description: "The URL of the Facebook page"},
					"company_website_url":     {Type: "string", Description: "The URL of the company website"},
					"content_preference":      {Type: "string", Description: "The content preference of the company, what should the ad convey"},
					"target_audience_profile": {Type: "string", Description: "The target audience profile for the ad"},
				},
				Required: []string{"facebook_page_url", "company_website_url", "content_preference", "target_audience_profile"},
			},
			Dispatch: dispatch,
		},
		Tool{
			Name:        "linkedin_growth",
			Description: "Generate a LinkedIn post",
			Parameters: Schema{
				Properties: map[string]Property{
					"linkedin_page_url":       {Type: "string", Description: "The URL of the LinkedIn page"},
					"company_website_url":     {Type: "string", Description: "The URL of the company website"},
					"content_preference":      {Type: "string", Description: "The content preference of the company, what should the post convey"},
					"target_audience_profile": {Type: "string", Description: "The target audience profile for the post"},
				},
				Required: []string{"linkedin_page_url", "company_website_url", "content_preference", "target_audience_profile"},
			},
			Dispatch: dispatch,
		},
		Tool{
			Name:        "SEO_content_generator",
			Description: "Generate SEO content for the company website",
			Parameters: Schema{
				Properties: map[string]Property{
					"company_website_url":     {Type: "string", Description: "The URL of the company website"},
					"content_preference":      {Type: "string", Description: "The content preference of the company, what should the content convey"},
					"target_audience_profile": {Type: "string", Description: "The target audience profile for the content"},
				},
				Required: []string{"company_website_url", "content_preference", "target_audience_profile"},
			},
			Dispatch: dispatch,
		},
		Tool{
			Name: MiscellaneousTaskName,
			Description: "Perform a miscellaneous task, this is a catch all tool for any task " +
				"that is not covered by the other tools. Guess the potentially crucial and " +
				"required inputs for the task_type and collect them in task_inputs.",
			Parameters: Schema{
				Properties: map[string]Property{
					"task_type":       {Type: "string", Description: "What is the task to be performed"},
					"task_inputs":     {Type: "object", Description: "Potential helpful inputs for the task"},
					"expected_output": {Type: "string", Description: "What is the expected output of the task"},
				},
				Required: []string{"task_type", "task_inputs", "expected_output"},
			},
			Dispatch: dispatch,
		},
	)
}
