package selection

// Framework names the frontend stack of the generated app.
type Framework string

const (
	FrameworkNext      Framework = "next"
	FrameworkReactVite Framework = "react-vite"
	FrameworkSvelte    Framework = "svelte"
)

// WidgetFlavor names the Nexus integration layer the generated app uses.
type WidgetFlavor string

const (
	WidgetsPlaceholder WidgetFlavor = "nexus-widgets"
	WidgetsCore        WidgetFlavor = "nexus-core"
	WidgetsElements    WidgetFlavor = "nexus-elements"
)

// AuthProvider names the wallet/auth library wired into the generated app.
type AuthProvider string

const (
	AuthPrivy   AuthProvider = "privy"
	AuthDynamic AuthProvider = "dynamic"
	AuthWagmi   AuthProvider = "wagmi-familyconnect"
)

// Frameworks, Widgets and Auths list every value the CLI accepts, in prompt order.
var (
	Frameworks = []Framework{FrameworkNext, FrameworkReactVite, FrameworkSvelte}
	Widgets    = []WidgetFlavor{WidgetsPlaceholder, WidgetsCore, WidgetsElements}
	Auths      = []AuthProvider{AuthPrivy, AuthDynamic, AuthWagmi}
)

// Selection is the answer set that drives a scaffold run.
type Selection struct {
	Dir       string
	Framework Framework
	Widgets   WidgetFlavor
	Auth      AuthProvider
}

// ConfigDocument is the record persisted as liquid.config.json.
type ConfigDocument struct {
	Framework Framework    `json:"framework"`
	Widgets   WidgetFlavor `json:"widgets"`
	Auth      AuthProvider `json:"auth"`
}

// Document returns the persisted form of the selection.
func (s Selection) Document() ConfigDocument {
	return ConfigDocument{Framework: s.Framework, Widgets: s.Widgets, Auth: s.Auth}
}

// Label returns the human readable framework name.
func (f Framework) Label() string {
	switch f {
	case FrameworkNext:
		return "Next.js"
	case FrameworkReactVite:
		return "React + Vite"
	case FrameworkSvelte:
		return "Svelte (Kit)"
	default:
		return string(f)
	}
}

// Choice is a single entry in an interactive select prompt.
type Choice struct {
	Name        string
	Value       string
	Description string
	Disabled    bool
}

// FrameworkChoices returns the framework prompt entries.
func FrameworkChoices() []Choice {
	return []Choice{
		{
			Name:        "Next.js",
			Value:       string(FrameworkNext),
			Description: "Recommended full-stack React framework with SSR support",
		},
		{
			Name:        "React + Vite",
			Value:       string(FrameworkReactVite),
			Description: "Lightweight React setup with Vite for faster development",
		},
		{
			Name:        "Svelte (Kit) (Coming Soon)",
			Value:       string(FrameworkSvelte),
			Description: "Compile-time framework with minimal runtime code",
			Disabled:    true,
		},
	}
}

// WidgetChoices returns the widget prompt entries offered for framework.
func WidgetChoices(framework Framework) []Choice {
	elements := Choice{
		Name:        "Nexus Elements (plug & play shadcn elements for easy integrations + customisability)",
		Value:       string(WidgetsElements),
		Description: "Shadcn UI components powered by Nexus Core for easy integration & customizability",
	}
	if framework == FrameworkReactVite {
		return []Choice{elements}
	}
	return []Choice{
		{
			Name:        "Nexus Core (lower-level SDK)",
			Value:       string(WidgetsCore),
			Description: "Build custom UI with Avail's core SDK for maximum flexibility",
		},
		elements,
	}
}

// AuthChoices returns the auth provider prompt entries.
func AuthChoices() []Choice {
	return []Choice{
		{
			Name:        "Privy",
			Value:       string(AuthPrivy),
			Description: "Simple wallet and social login with embedded wallet creation",
		},
		{
			Name:        "Dynamic",
			Value:       string(AuthDynamic),
			Description: "Multi-chain authentication with embedded wallet support",
		},
		{
			Name:        "Wagmi + ConnectKit",
			Value:       string(AuthWagmi),
			Description: "Popular React hooks library with smart account support",
		},
	}
}
