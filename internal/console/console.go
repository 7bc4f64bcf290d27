// Package console реализует интерактивный опрос параметров темпа
// перед стартом сессии
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Console построчный опрос оператора
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

// New создаёт консоль над произвольными потоками
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// AskInt спрашивает целое до тех пор, пока оператор не введёт
// корректное значение. Пустой ввод принимает значение по умолчанию
func (c *Console) AskInt(prompt string, def int) (int, error) {
	for {
		fmt.Fprintf(c.out, "%s [%d]: ", prompt, def)
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			return def, nil
		}
		v, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(c.out, "not a number: %q\n", line)
			continue
		}
		if v <= 0 {
			fmt.Fprintf(c.out, "must be positive: %d\n", v)
			continue
		}
		return v, nil
	}
}
