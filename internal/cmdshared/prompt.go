package cmdshared

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/dixonwille/wmenu.v4"

	"github.com/leocov-dev/addonpack/internal/shared"
	"github.com/leocov-dev/addonpack/sources"
)

func PromptYesNo(prompt string) bool {
	fmt.Print(prompt)
	if viper.GetBool("non-interactive") {
		fmt.Println("Y (non-interactive mode)")
		return true
	}
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		shared.Exitf("Failed to prompt user: %v\n", err)
	}

	ansNormal := strings.ToLower(strings.TrimSpace(answer))
	if len(ansNormal) > 0 && ansNormal[0] == 'n' {
		return false
	}
	return true
}

// ReadValue prompts for a line of input, returning def for an empty answer or in
// non-interactive mode.
func ReadValue(prompt string, def string) string {
	fmt.Print(prompt)
	if viper.GetBool("non-interactive") {
		fmt.Printf("%s\n", def)
		return def
	}
	value, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		shared.Exitf("Error reading input: %s\n", err)
	}
	// Trims both CR and LF
	value = strings.TrimSpace(strings.TrimRight(value, "\r\n"))
	if len(value) > 0 {
		return value
	}
	return def
}

// ChooseHit lets the user pick one of hits. ok is false when the user cancels. In
// non-interactive mode the first hit is taken.
func ChooseHit(hits []sources.SearchHit) (hit sources.SearchHit, ok bool, err error) {
	if len(hits) == 0 {
		return sources.SearchHit{}, false, nil
	}
	if viper.GetBool("non-interactive") {
		fmt.Printf("Using %s (non-interactive mode)\n", hits[0].Title)
		return hits[0], true, nil
	}

	menu := wmenu.NewMenu("Choose a number:")
	menu.Option("Cancel", nil, false, nil)
	for i, v := range hits {
		menu.Option(v.Title+" ("+v.Slug+")", v, i == 0, nil)
	}

	menu.Action(func(menuRes []wmenu.Opt) error {
		if len(menuRes) != 1 || menuRes[0].Value == nil {
			fmt.Println("Cancelled!")
			return nil
		}
		selected, isHit := menuRes[0].Value.(sources.SearchHit)
		if !isHit {
			return errors.New("error converting interface from wmenu")
		}
		hit, ok = selected, true
		return nil
	})
	err = menu.Run()
	return hit, ok, err
}
