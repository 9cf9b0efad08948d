// Package cli implements the interactive terminal front end for gophprofile.
//
// The App hydrates a form from the stored profile on start, then runs a
// read-eval-print loop:
//
//	help          show available commands
//	show          print the form and a preview of the profile photo
//	edit          edit the form field by field and save it
//	photo <path>  load a photo from a file in the background and save it
//	clearphoto    remove the stored photo
//	clear         remove the stored profile and photo
//	exit | quit   leave the program
package cli
