package catalog

// Default returns the built-in catalog. Each call returns a fresh copy.
func Default() *Catalog {
	return &Catalog{
		Categories: defaultCategories(),
		Tools:      defaultTools(),
		Presets:    defaultPresets(),
	}
}

func defaultCategories() []Category {
	return []Category{
		{ID: "frameworks", Name: "Frameworks", Description: "Application frameworks and project scaffolding", Icon: IconLayers},
		{ID: "ui", Name: "UI & Styling", Description: "Component libraries, CSS tooling and icons", Icon: IconPalette},
		{ID: "state", Name: "State & Data", Description: "Client state, server cache and data fetching", Icon: IconDatabase},
		{ID: "animation", Name: "Animation", Description: "Motion and transition libraries", Icon: IconSparkles},
		{ID: "auth", Name: "Authentication", Description: "Sign-in, sessions and identity providers", Icon: IconShield},
		{ID: "devtools", Name: "Dev Tools", Description: "Linting, formatting, typing and testing", Icon: IconWrench},
		{ID: "utilities", Name: "Utilities", Description: "General purpose helpers", Icon: IconPackage},
	}
}

func defaultTools() []Tool {
	return []Tool{
		{
			ID:             "nextjs",
			Name:           "Next.js",
			Description:    "The React framework for production with hybrid static and server rendering",
			Category:       "frameworks",
			InstallCommand: "npx create-next-app@latest",
			DocsURL:        "https://nextjs.org/docs",
			Icon:           "nextjs",
		},
		{
			ID:             "vite",
			Name:           "Vite",
			Description:    "Next generation frontend tooling with instant dev server start",
			Category:       "frameworks",
			InstallCommand: "npm create vite@latest",
			DocsURL:        "https://vite.dev/guide/",
			Icon:           "vite",
		},
		{
			ID:             "astro",
			Name:           "Astro",
			Description:    "Content-focused web framework that ships less JavaScript",
			Category:       "frameworks",
			InstallCommand: "npm create astro@latest",
			DocsURL:        "https://docs.astro.build",
		},
		{
			ID:             "react",
			Name:           "React",
			Description:    "A JavaScript library for building user interfaces",
			Category:       "frameworks",
			InstallCommand: "npm install react react-dom",
			DocsURL:        "https://react.dev/learn",
			Icon:           "react",
		},
		{
			ID:             "tailwindcss",
			Name:           "Tailwind CSS",
			Description:    "Utility-first CSS framework for rapid UI development",
			Category:       "ui",
			InstallCommand: "npm install -D tailwindcss @tailwindcss/vite",
			DocsURL:        "https://tailwindcss.com/docs",
			SetupSteps: []string{
				"Add the @tailwindcss/vite plugin to vite.config.ts",
				"Add @import \"tailwindcss\"; to your main CSS file",
			},
		},
		{
			ID:             "shadcn-ui",
			Name:           "shadcn/ui",
			Description:    "Beautifully designed components built with Radix UI and Tailwind CSS",
			Category:       "ui",
			InstallCommand: "npx shadcn@latest init",
			DocsURL:        "https://ui.shadcn.com/docs",
			SetupSteps: []string{
				"Answer the init prompts to create components.json",
				"Add components with npx shadcn@latest add button",
			},
		},
		{
			ID:             "mui",
			Name:           "Material UI",
			Description:    "React components implementing Google's Material Design",
			Category:       "ui",
			InstallCommand: "npm install @mui/material @emotion/react @emotion/styled",
			DocsURL:        "https://mui.com/material-ui/getting-started/",
		},
		{
			ID:             "lucide-react",
			Name:           "Lucide React",
			Description:    "Beautiful and consistent open source icon set for React",
			Category:       "ui",
			InstallCommand: "npm install lucide-react",
			DocsURL:        "https://lucide.dev/guide/packages/lucide-react",
		},
		{
			ID:             "zustand",
			Name:           "Zustand",
			Description:    "Small, fast and scalable state management using simplified flux principles",
			Category:       "state",
			InstallCommand: "npm install zustand",
			DocsURL:        "https://zustand.docs.pmnd.rs",
		},
		{
			ID:             "redux-toolkit",
			Name:           "Redux Toolkit",
			Description:    "The official, opinionated toolset for efficient Redux development",
			Category:       "state",
			InstallCommand: "npm install @reduxjs/toolkit react-redux",
			DocsURL:        "https://redux-toolkit.js.org/introduction/getting-started",
			SetupSteps: []string{
				"Create a store with configureStore in src/store.ts",
				"Wrap your app in <Provider store={store}>",
			},
		},
		{
			ID:             "tanstack-query",
			Name:           "TanStack Query",
			Description:    "Powerful asynchronous state management and data fetching for the web",
			Category:       "state",
			InstallCommand: "npm install @tanstack/react-query",
			DocsURL:        "https://tanstack.com/query/latest/docs",
			SetupSteps: []string{
				"Create a QueryClient instance",
				"Wrap your app in <QueryClientProvider client={queryClient}>",
			},
		},
		{
			ID:             "jotai",
			Name:           "Jotai",
			Description:    "Primitive and flexible atomic state for React",
			Category:       "state",
			InstallCommand: "npm install jotai",
			DocsURL:        "https://jotai.org/docs/introduction",
		},
		{
			ID:             "framer-motion",
			Name:           "Motion",
			Description:    "Production-ready motion library for React (formerly Framer Motion)",
			Category:       "animation",
			InstallCommand: "npm install motion",
			DocsURL:        "https://motion.dev/docs/react",
		},
		{
			ID:             "gsap",
			Name:           "GSAP",
			Description:    "Professional-grade JavaScript animation for the modern web",
			Category:       "animation",
			InstallCommand: "npm install gsap",
			DocsURL:        "https://gsap.com/docs/v3/",
		},
		{
			ID:             "auto-animate",
			Name:           "AutoAnimate",
			Description:    "Zero-config drop-in animation utility",
			Category:       "animation",
			InstallCommand: "npm install @formkit/auto-animate",
			DocsURL:        "https://auto-animate.formkit.com",
		},
		{
			ID:             "next-auth",
			Name:           "Auth.js",
			Description:    "Authentication for the web, with built-in OAuth providers",
			Category:       "auth",
			InstallCommand: "npm install next-auth",
			DocsURL:        "https://authjs.dev/getting-started",
			SetupSteps: []string{
				"Run npx auth secret to generate AUTH_SECRET",
				"Create auth.ts exporting handlers, signIn, signOut and auth",
				"Add app/api/auth/[...nextauth]/route.ts",
			},
		},
		{
			ID:             "clerk",
			Name:           "Clerk",
			Description:    "Drop-in authentication and user management",
			Category:       "auth",
			InstallCommand: "npm install @clerk/nextjs",
			DocsURL:        "https://clerk.com/docs",
			SetupSteps: []string{
				"Set NEXT_PUBLIC_CLERK_PUBLISHABLE_KEY and CLERK_SECRET_KEY in .env.local",
				"Add clerkMiddleware() in middleware.ts",
			},
		},
		{
			ID:             "supabase",
			Name:           "Supabase",
			Description:    "Open source backend with Postgres, auth and storage",
			Category:       "auth",
			InstallCommand: "npm install @supabase/supabase-js",
			DocsURL:        "https://supabase.com/docs",
		},
		{
			ID:             "typescript",
			Name:           "TypeScript",
			Description:    "Typed superset of JavaScript that compiles to plain JavaScript",
			Category:       "devtools",
			InstallCommand: "npm install -D typescript @types/node",
			DocsURL:        "https://www.typescriptlang.org/docs/",
			SetupSteps: []string{
				"Run npx tsc --init to create tsconfig.json",
			},
		},
		{
			ID:             "eslint",
			Name:           "ESLint",
			Description:    "Find and fix problems in your JavaScript code",
			Category:       "devtools",
			InstallCommand: "npm install -D eslint",
			DocsURL:        "https://eslint.org/docs/latest/",
			SetupSteps: []string{
				"Run npm init @eslint/config@latest",
			},
		},
		{
			ID:             "prettier",
			Name:           "Prettier",
			Description:    "Opinionated code formatter",
			Category:       "devtools",
			InstallCommand: "npm install -D prettier",
			DocsURL:        "https://prettier.io/docs/",
			SetupSteps: []string{
				"Create .prettierrc with your formatting options",
			},
		},
		{
			ID:             "vitest",
			Name:           "Vitest",
			Description:    "Next generation testing framework powered by Vite",
			Category:       "devtools",
			InstallCommand: "npm install -D vitest",
			DocsURL:        "https://vitest.dev/guide/",
		},
		{
			ID:             "husky",
			Name:           "Husky",
			Description:    "Git hooks made easy",
			Category:       "devtools",
			InstallCommand: "npm install --save-dev husky",
			DocsURL:        "https://typicode.github.io/husky/",
			SetupSteps: []string{
				"Run npx husky init",
			},
		},
		{
			ID:             "zod",
			Name:           "Zod",
			Description:    "TypeScript-first schema validation with static type inference",
			Category:       "utilities",
			InstallCommand: "npm install zod",
			DocsURL:        "https://zod.dev",
		},
		{
			ID:             "axios",
			Name:           "Axios",
			Description:    "Promise based HTTP client for the browser and node.js",
			Category:       "utilities",
			InstallCommand: "npm install axios",
			DocsURL:        "https://axios-http.com/docs/intro",
		},
		{
			ID:             "date-fns",
			Name:           "date-fns",
			Description:    "Modern JavaScript date utility library",
			Category:       "utilities",
			InstallCommand: "npm install date-fns",
			DocsURL:        "https://date-fns.org/docs/Getting-Started",
		},
		{
			ID:             "clsx",
			Name:           "clsx",
			Description:    "Tiny utility for constructing className strings conditionally",
			Category:       "utilities",
			InstallCommand: "npm install clsx",
			DocsURL:        "https://github.com/lukeed/clsx#readme",
		},
	}
}

func defaultPresets() []Preset {
	return []Preset{
		{
			ID:          "saas-starter",
			Name:        "SaaS Starter",
			Description: "Full-stack Next.js app with auth, data fetching and validation",
			Icon:        "rocket",
			Tools:       []string{"nextjs", "tailwindcss", "shadcn-ui", "next-auth", "tanstack-query", "zod", "typescript", "eslint", "prettier"},
		},
		{
			ID:          "react-spa",
			Name:        "React SPA",
			Description: "Vite-powered single page app with lightweight state",
			Icon:        "zap",
			Tools:       []string{"vite", "react", "tailwindcss", "zustand", "axios", "typescript", "vitest"},
		},
		{
			ID:          "landing-page",
			Name:        "Landing Page",
			Description: "Marketing site with motion and icons",
			Icon:        "sparkles",
			Tools:       []string{"astro", "tailwindcss", "framer-motion", "lucide-react"},
		},
		{
			ID:          "admin-dashboard",
			Name:        "Admin Dashboard",
			Description: "Data-heavy dashboard with Material UI and Redux",
			Icon:        "layout-dashboard",
			Tools:       []string{"vite", "react", "mui", "redux-toolkit", "axios", "date-fns", "eslint"},
		},
	}
}
