package customize

import (
	"github.com/avail-project/create-liquid-apps/internal/selection"
)

// Profile describes how a framework's template is patched.
type Profile struct {
	Framework selection.Framework

	EnvFile    string
	EnvHeader  string
	EnvPrefix  string
	PrivyKey   string
	DynamicKey string

	// CoreRemovals are deleted when the core widgets flavor is chosen.
	CoreRemovals []string

	// ElementsPage is promoted over MainPage, then ElementsDir and
	// ElementsRemovals are deleted, when the elements flavor is chosen.
	ElementsPage     string
	MainPage         string
	ElementsDir      string
	ElementsRemovals []string

	MergeDependencies bool
}

// Profiles holds the patching rules per framework.
var Profiles = map[selection.Framework]Profile{
	selection.FrameworkNext: {
		Framework:  selection.FrameworkNext,
		EnvFile:    ".env.local.example",
		EnvHeader:  "# Fill these and rename to .env.local",
		EnvPrefix:  "NEXT_PUBLIC_",
		PrivyKey:   "PRIVY_APP_ID",
		DynamicKey: "DYNAMIC_ENV_ID",
		CoreRemovals: []string{
			"components/common",
			"components/fast-bridge",
			"components/unified-balance",
			"app/elements",
		},
		ElementsPage: "app/elements/page.tsx",
		MainPage:     "app/page.tsx",
		ElementsDir:  "app/elements",
		ElementsRemovals: []string{
			"components/BalanceDashboard.tsx",
			"components/BridgeModal.tsx",
			"components/ExecuteModal.tsx",
			"hooks/useAaveDeposit.ts",
			"hooks/useBridge.ts",
		},
	},
	selection.FrameworkReactVite: {
		Framework:         selection.FrameworkReactVite,
		EnvFile:           ".env.example",
		EnvHeader:         "# Fill these and rename to .env",
		EnvPrefix:         "VITE_",
		PrivyKey:          "VITE_PRIVY_APP_ID",
		DynamicKey:        "VITE_DYNAMIC_ENV_ID",
		MergeDependencies: true,
	},
}

// Chain defaults written into every env sample.
const (
	ChainID  = "23294"
	AvailRPC = "https://rpc.availproject.org"
)

// EnvLines returns the env sample content for the given auth provider.
func (p Profile) EnvLines(auth selection.AuthProvider) []string {
	lines := []string{
		p.EnvHeader,
		p.EnvPrefix + "CHAIN_ID=" + ChainID,
		p.EnvPrefix + "AVAIL_RPC=" + AvailRPC,
	}
	switch auth {
	case selection.AuthPrivy:
		lines = append(lines, p.PrivyKey+"=")
	case selection.AuthDynamic:
		lines = append(lines, p.DynamicKey+"=")
	}
	return lines
}

var baseDependencies = map[string]string{
	"react":     "^18.3.1",
	"react-dom": "^18.3.1",
	"vite":      "^5.0.0",
}

var widgetDependencies = map[selection.WidgetFlavor]map[string]string{
	selection.WidgetsCore: {
		"@avail-project/nexus-core": "latest",
	},
	selection.WidgetsElements: {
		"@avail-project/nexus-core": "latest",
		"lucide-react":              "^0.460.0",
	},
}

var authDependencies = map[selection.AuthProvider]map[string]string{
	selection.AuthWagmi: {
		"wagmi":                 "^2.14.0",
		"viem":                  "^2.21.0",
		"connectkit":            "^1.8.2",
		"@tanstack/react-query": "^5.62.0",
	},
	selection.AuthPrivy: {
		"@privy-io/react-auth": "^1.99.0",
	},
	selection.AuthDynamic: {
		"@dynamic-labs/sdk-react-core": "^4.0.0",
		"@dynamic-labs/ethereum":       "^4.0.0",
	},
}

// RequiredDependencies returns the manifest entries a selection needs.
func RequiredDependencies(widgets selection.WidgetFlavor, auth selection.AuthProvider) map[string]string {
	deps := make(map[string]string, len(baseDependencies)+6)
	for _, set := range []map[string]string{baseDependencies, widgetDependencies[widgets], authDependencies[auth]} {
		for name, version := range set {
			deps[name] = version
		}
	}
	return deps
}
