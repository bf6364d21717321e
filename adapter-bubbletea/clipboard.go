package adapter_bubbletea

import "github.com/atotto/clipboard"

type clipboardImpl struct{}

func (c *clipboardImpl) Write(text string) error {
	return clipboard.WriteAll(text)
}

func (c *clipboardImpl) Read() (string, error) {
	return clipboard.ReadAll()
}
