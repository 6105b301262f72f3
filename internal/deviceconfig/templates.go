package deviceconfig

import (
	"fmt"
	"strings"
	"text/template"
)

// Source layout templates for device channels. Rendered output is
// whitespace-stripped before storage so the device receives compact
// JSON.

// singleChannelLayout renders a layout with one video source
// (separate presenter / presentation channels). Audio always comes
// from the presenter connector.
const singleChannelLayout = `{
    "audio": [
        {
            "settings": {
                "source": "{{.SourceID}}.{{.Aconnector}}-{{.Ainput}}-audio"
            },
            "type": "source"
        }
    ],
    "background": "#000000",
    "nosignal": {
        "id": "default"
    },
    "video": [
        {
            "position": {
                "height": "100%",
                "keep_aspect_ratio": true,
                "left": "0%",
                "top": "0%",
                "width": "100%"
            },
            "settings": {
                "source": "{{.SourceID}}.{{.Vconnector}}-{{.Vinput}}"
            },
            "type": "source"
        }
    ]
}`

// combinedChannelsLayout renders a side-by-side layout with presenter
// and presentation in the same channel, used for live flavors.
const combinedChannelsLayout = `{
    "audio": [
        {
            "settings": {
                "source": "{{.SourceID}}.{{.PrAconnector}}-{{.PrAinput}}-audio"
            },
            "type": "source"
        }
    ],
    "nosignal": {
        "id": "default"
    },
    "background": "#000000",
    "video": [
        {
            "crop": {},
            "position": {
                "keep_aspect_ratio": true,
                "height": "100%",
                "width": "50%",
                "left": "0%",
                "top": "0%"
            },
            "settings": {
                "source": "{{.SourceID}}.{{.PrVconnector}}-{{.PrVinput}}"
            },
            "type": "source"
        },
        {
            "crop": {},
            "position": {
                "keep_aspect_ratio": true,
                "height": "100%",
                "width": "50%",
                "left": "50%",
                "top": "0%"
            },
            "settings": {
                "source": "{{.SourceID}}.{{.PnVconnector}}-{{.PnVinput}}"
            },
            "type": "source"
        }
    ]
}`

var (
	singleLayoutTmpl   = template.Must(template.New("single").Parse(singleChannelLayout))
	combinedLayoutTmpl = template.Must(template.New("combined").Parse(combinedChannelsLayout))
)

// singleLayoutData parameterises singleChannelLayout.
type singleLayoutData struct {
	SourceID   int
	Vconnector string
	Vinput     string
	Aconnector string
	Ainput     string
}

// combinedLayoutData parameterises combinedChannelsLayout.
type combinedLayoutData struct {
	SourceID     int
	PrVconnector string
	PrVinput     string
	PnVconnector string
	PnVinput     string
	PrAconnector string
	PrAinput     string
}

func renderSingleLayout(data singleLayoutData) (string, error) {
	return renderStripped(singleLayoutTmpl, data)
}

func renderCombinedLayout(data combinedLayoutData) (string, error) {
	return renderStripped(combinedLayoutTmpl, data)
}

// renderStripped executes the template and removes all spaces and
// newlines from the result.
func renderStripped(tmpl *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering layout: %w", err)
	}
	out := strings.ReplaceAll(b.String(), " ", "")
	out = strings.ReplaceAll(out, "\n", "")
	return out, nil
}

// renderStreamTemplate executes a stream URL or stream-name template
// from a stream configuration.
type streamTemplateData struct {
	StreamID     string
	LocationName string
	Framesize    string
}

func renderStreamTemplate(text string, data streamTemplateData) (string, error) {
	tmpl, err := template.New("stream").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing stream template: %w", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering stream template: %w", err)
	}
	return b.String(), nil
}
