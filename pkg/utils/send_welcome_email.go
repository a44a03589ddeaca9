package utils

import (
	"fmt"
	"time"
)

func SendWelcomeEmail(to, name string) error {
	subject := fmt.Sprintf("Welcome to SplitRight, %s!", name)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
		<meta charset="UTF-8" />
		<meta name="viewport" content="width=device-width, initial-scale=1.0" />
		<title>Welcome to SplitRight</title>
		<style>
			body {
				font-family: 'Segoe UI', Roboto, Arial, sans-serif;
				background-color: #f9fbfa;
				margin: 0;
				padding: 0;
			}
			.container {
				max-width: 600px;
				margin: 40px auto;
				background: #ffffff;
				border-radius: 14px;
				box-shadow: 0 8px 24px rgba(0, 0, 0, 0.08);
				overflow: hidden;
				border-top: 6px solid #2f6fed;
			}
			.header {
				background-color: #2f6fed;
				color: #ffffff;
				text-align: center;
				padding: 32px 20px;
			}
			.header h1 {
				margin: 0;
				font-size: 24px;
				font-weight: 700;
			}
			.content {
				padding: 30px 36px;
				color: #333333;
			}
			.greeting {
				font-size: 17px;
				font-weight: 600;
				margin-bottom: 12px;
			}
			.message {
				font-size: 15px;
				line-height: 1.8;
				color: #444444;
				margin-bottom: 16px;
			}
			ul {
				padding-left: 22px;
				margin: 8px 0 16px;
			}
			ul li {
				margin-bottom: 8px;
				font-size: 14.5px;
				color: #555555;
				line-height: 1.7;
			}
			.footer {
				background: #f2f6ff;
				text-align: center;
				padding: 22px;
				font-size: 12.5px;
				color: #666666;
				border-top: 1px solid #e5e5e5;
			}
			.brand {
				color: #2f6fed;
				font-weight: 600;
			}
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>Welcome to SplitRight 🎉</h1>
			</div>
			<div class="content">
				<p class="greeting">Hi %s,</p>

				<p class="message">
					Your account is ready. SplitRight keeps shared expenses fair:
					record who paid, split it your way, and always know who owes whom.
				</p>

				<ul>
					<li>Create groups for trips, housemates, or teams.</li>
					<li>Split expenses equally or with custom amounts.</li>
					<li>See live balances that always add up to zero.</li>
					<li>Settle up with suggested payments.</li>
				</ul>

				<p class="message">
					Create your first group and add an expense to get started.
				</p>
			</div>
			<div class="footer">
				&copy; %d <span class="brand">SplitRight</span> — Split expenses the right way.
			</div>
		</div>
	</body>
	</html>
	`, name, time.Now().Year())

	return SendEmail(to, subject, body)
}
