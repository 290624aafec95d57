package domain

// ExportFixesFlag is the clang-tidy option that writes fix suggestions to a file.
const ExportFixesFlag = "-export-fixes="

// BuildInvocation assembles clang-tidy's argument list: the operator's arguments
// in the order given, then the fix-export flag, then the files.
func BuildInvocation(operatorArgs []string, fixesPath string, files []string) []string {
	args := make([]string, 0, len(operatorArgs)+1+len(files))
	args = append(args, operatorArgs...)
	args = append(args, ExportFixesFlag+fixesPath)
	args = append(args, files...)
	return args
}
