package assemblyai

import (
	"context"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/plugin"
	"github.com/kbukum/speechkit/transcription"
)

// Function names.
const (
	FunctionTranscribe = "Transcribe"
	FunctionUpload     = "Upload"
)

// Transcriber runs a transcription to completion.
type Transcriber interface {
	Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error)
}

// Uploader uploads a local file and returns its service URL.
type Uploader interface {
	UploadFile(ctx context.Context, path string) (string, error)
}

// New builds the plugin on top of t and u. An empty name uses DefaultName.
func New(name string, t Transcriber, u Uploader) *plugin.Plugin {
	if name == "" {
		name = DefaultName
	}
	return &plugin.Plugin{
		Name:        name,
		Description: "Speech to text with AssemblyAI.",
		Functions: []plugin.Function{
			{
				Name:        FunctionTranscribe,
				Description: "Transcribe an audio or video file to text.",
				Parameters: []plugin.Parameter{
					{
						Name:        "input",
						Description: "The public URL or the local path of the audio or video file to transcribe.",
						Type:        plugin.TypeString,
						Required:    true,
					},
					{
						Name:        "params",
						Description: "Additional transcription parameters sent with the job, such as language_code or speaker_labels.",
						Type:        plugin.TypeObject,
					},
				},
				Handler: transcribeHandler(t),
			},
			{
				Name:        FunctionUpload,
				Description: "Upload audio or video file to AssemblyAI so it can be transcribed and return the URL of the file.",
				Parameters: []plugin.Parameter{
					{
						Name:        "path",
						Description: "The path of the audio or video file.",
						Type:        plugin.TypeString,
						Required:    true,
					},
				},
				Handler: uploadHandler(u),
			},
		},
	}
}

func transcribeHandler(t Transcriber) plugin.Handler {
	return func(ctx context.Context, args plugin.Arguments) (string, error) {
		input, err := args.String("input")
		if err != nil {
			return "", err
		}
		params, err := args.Object("params")
		if err != nil {
			return "", err
		}
		resp, err := t.Transcribe(ctx, transcription.Request{Input: input, Params: params})
		if err != nil {
			return "", err
		}
		return resp.Text, nil
	}
}

func uploadHandler(u Uploader) plugin.Handler {
	return func(ctx context.Context, args plugin.Arguments) (string, error) {
		path, err := args.String("path")
		if err != nil {
			return "", err
		}
		if u == nil {
			return "", errors.Forbidden("uploads are not available for this plugin")
		}
		return u.UploadFile(ctx, path)
	}
}
