// Package findfile locates files by name inside well-known user folders,
// so a host can turn "espn.m4a in my downloads folder" into a path.
//
// Folder names are matched case-insensitively: "" and "." mean the working
// directory, "user" the home directory, and "downloads", "desktop",
// "videos", "music", "pictures" and "documents" the matching folders under
// it. XDG user directory variables (XDG_DOWNLOAD_DIR and so on) take
// precedence when set.
package findfile
