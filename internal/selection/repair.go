package selection

// Combination is one supported (framework, widgets, auth) tuple.
type Combination struct {
	Framework Framework
	Widgets   WidgetFlavor
	Auth      AuthProvider
}

// Supported lists every combination the templates currently implement.
// Growing support is a matter of adding rows here.
var Supported = []Combination{
	{FrameworkNext, WidgetsCore, AuthWagmi},
	{FrameworkNext, WidgetsElements, AuthWagmi},
	{FrameworkReactVite, WidgetsElements, AuthWagmi},
}

const (
	DefaultFramework = FrameworkNext
	DefaultAuth      = AuthWagmi
)

var defaultWidgets = map[Framework]WidgetFlavor{
	FrameworkNext:      WidgetsCore,
	FrameworkReactVite: WidgetsElements,
}

const (
	frameworkWarning = "Only Next.js and React+Vite are currently supported. Defaulting to Next.js."
	authWarning      = "Only Wagmi + ConnectKit is currently supported. Defaulting to Wagmi + ConnectKit."
)

var widgetWarnings = map[Framework]string{
	FrameworkNext:      "Only Nexus Core and Nexus Elements are currently supported. Defaulting to Nexus Core.",
	FrameworkReactVite: "Only Nexus Elements is currently supported for React+Vite. Defaulting to Nexus Elements.",
}

// Warning describes one field the repair pass replaced.
type Warning struct {
	Field   string
	From    string
	To      string
	Message string
}

func (w Warning) String() string {
	return w.Message
}

// Repair coerces sel into a supported combination. Fields are resolved in
// order framework, auth, widgets; each unsupported field is replaced by its
// documented default and reported as a Warning. Dir is left untouched.
func Repair(sel Selection) (Selection, []Warning) {
	var warnings []Warning

	if !supports(func(c Combination) bool { return c.Framework == sel.Framework }) {
		warnings = append(warnings, Warning{
			Field:   "framework",
			From:    string(sel.Framework),
			To:      string(DefaultFramework),
			Message: frameworkWarning,
		})
		sel.Framework = DefaultFramework
	}

	if !supports(func(c Combination) bool { return c.Framework == sel.Framework && c.Auth == sel.Auth }) {
		to := defaultAuthFor(sel.Framework)
		warnings = append(warnings, Warning{
			Field:   "auth",
			From:    string(sel.Auth),
			To:      string(to),
			Message: authWarning,
		})
		sel.Auth = to
	}

	if !supported(Combination{sel.Framework, sel.Widgets, sel.Auth}) {
		to := defaultWidgetsFor(sel.Framework, sel.Auth)
		msg := widgetWarnings[sel.Framework]
		if msg == "" {
			msg = "Unsupported widgets flavor. Defaulting to " + string(to) + "."
		}
		warnings = append(warnings, Warning{
			Field:   "widgets",
			From:    string(sel.Widgets),
			To:      string(to),
			Message: msg,
		})
		sel.Widgets = to
	}

	return sel, warnings
}

// IsSupported reports whether the selection's tuple is in Supported.
func IsSupported(sel Selection) bool {
	return supported(Combination{sel.Framework, sel.Widgets, sel.Auth})
}

func supported(c Combination) bool {
	return supports(func(s Combination) bool { return s == c })
}

func supports(match func(Combination) bool) bool {
	for _, c := range Supported {
		if match(c) {
			return true
		}
	}
	return false
}

func defaultAuthFor(f Framework) AuthProvider {
	if supports(func(c Combination) bool { return c.Framework == f && c.Auth == DefaultAuth }) {
		return DefaultAuth
	}
	for _, c := range Supported {
		if c.Framework == f {
			return c.Auth
		}
	}
	return DefaultAuth
}

func defaultWidgetsFor(f Framework, a AuthProvider) WidgetFlavor {
	if w, ok := defaultWidgets[f]; ok && supported(Combination{f, w, a}) {
		return w
	}
	for _, c := range Supported {
		if c.Framework == f && c.Auth == a {
			return c.Widgets
		}
	}
	return WidgetsCore
}
