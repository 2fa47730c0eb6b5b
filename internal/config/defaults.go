package config

// defaultPatterns are applied before .gitignore and --exclude patterns
// unless --no-defaults is set.
var defaultPatterns = []string{
	// version control
	".git/",
	".svn/",
	".hg/",

	// dependencies
	"node_modules/",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"__pycache__/",
	"*.pyc",
	"*.pyo",
	"*.pyd",
	".venv/",
	"venv/",
	"env/",
	"*.egg-info/",
	"dist/",
	"build/",
	"vendor/",
	"storage/framework/",
	"storage/logs/",

	// environment and IDE
	".env",
	".vscode/",
	".idea/",
	"*.suo",
	"*.ntvs*",
	"*.njsproj",
	"*.sln",

	// OS files
	".DS_Store",
	"Thumbs.db",

	// logs, temporaries and artifacts
	"*.log",
	"*.tmp",
	"*.temp",
	"*.o",
	"*.obj",
	"*.so",
	"*.dll",
	"*.lib",
	"*.out",
	"*.zip",
	"*.tar.gz",
	"*.rar",
}

var binaryExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".tif", ".tiff",
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".eot", ".otf", ".ttf", ".woff", ".woff2",
	".mp3", ".wav", ".mp4", ".mov", ".avi",
	".exe", ".bin", ".dll", ".so",
}

// DefaultPatterns returns a copy of the built-in ignore patterns.
func DefaultPatterns() []string {
	return append([]string(nil), defaultPatterns...)
}

// BinaryExtensions returns a copy of the extensions that are always treated
// as binary, lower case with a leading dot.
func BinaryExtensions() []string {
	return append([]string(nil), binaryExtensions...)
}
